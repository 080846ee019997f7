package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitSignal(t *testing.T, ch <-chan struct{}, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatal(msg)
	}
}

func TestTimerExpires(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	expired := make(chan struct{})
	id := s.StartTurnTimer("room1", 100*time.Millisecond, 0, Callbacks{
		OnExpire: func() { close(expired) },
	})
	require.NotEmpty(t, id)

	waitSignal(t, expired, time.Second, "timer did not expire")

	// Expired timers deregister themselves
	_, ok := s.TurnRemaining("room1")
	assert.False(t, ok)
}

func TestCancelPreventsCallbacks(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	var fired atomic.Bool
	s.StartTurnTimer("room1", 150*time.Millisecond, 0, Callbacks{
		OnExpire: func() { fired.Store(true) },
	})

	s.CancelTurnTimer("room1")

	// After Cancel returns no callback may ever fire
	time.Sleep(300 * time.Millisecond)
	assert.False(t, fired.Load())

	// Cancelling again is a no-op
	s.CancelTurnTimer("room1")
}

func TestReplaceCancelsPrevious(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	var firstFired atomic.Bool
	secondExpired := make(chan struct{})

	first := s.StartTurnTimer("room1", 100*time.Millisecond, 0, Callbacks{
		OnExpire: func() { firstFired.Store(true) },
	})
	second := s.StartTurnTimer("room1", 150*time.Millisecond, 0, Callbacks{
		OnExpire: func() { close(secondExpired) },
	})
	assert.NotEqual(t, first, second)

	waitSignal(t, secondExpired, time.Second, "replacement timer did not expire")
	assert.False(t, firstFired.Load())
}

func TestRemaining(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	s.StartTurnTimer("room1", 500*time.Millisecond, 0, Callbacks{})

	remaining, ok := s.TurnRemaining("room1")
	require.True(t, ok)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 500*time.Millisecond)

	_, ok = s.TurnRemaining("other")
	assert.False(t, ok)
}

func TestExtendPushesDeadline(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	expired := make(chan struct{})
	s.StartTurnTimer("room1", 150*time.Millisecond, 0, Callbacks{
		OnExpire: func() { close(expired) },
	})

	require.True(t, s.Extend(turnKey("room1"), 300*time.Millisecond))

	select {
	case <-expired:
		t.Fatal("timer expired before the extended deadline")
	case <-time.After(250 * time.Millisecond):
	}

	waitSignal(t, expired, time.Second, "extended timer did not expire")
}

func TestPauseAndResume(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	expired := make(chan struct{})
	s.StartTurnTimer("room1", 200*time.Millisecond, 0, Callbacks{
		OnExpire: func() { close(expired) },
	})

	require.True(t, s.Pause(turnKey("room1")))

	select {
	case <-expired:
		t.Fatal("paused timer expired")
	case <-time.After(400 * time.Millisecond):
	}

	frozen, ok := s.TurnRemaining("room1")
	require.True(t, ok)
	assert.Greater(t, frozen, time.Duration(0))

	require.True(t, s.Resume(turnKey("room1")))
	waitSignal(t, expired, time.Second, "resumed timer did not expire")
}

func TestExpireCallbackCanRestartTimer(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	second := make(chan struct{})
	s.StartTurnTimer("room1", 80*time.Millisecond, 0, Callbacks{
		OnExpire: func() {
			// The engine does exactly this: a timeout immediately arms the
			// next turn's countdown on the same key
			s.StartTurnTimer("room1", 80*time.Millisecond, 0, Callbacks{
				OnExpire: func() { close(second) },
			})
		},
	})

	waitSignal(t, second, time.Second, "restarted timer did not expire")
}

func TestStopAll(t *testing.T) {
	s := NewService()

	var fired atomic.Int32
	for _, room := range []string{"a", "b", "c"} {
		s.StartTurnTimer(room, 200*time.Millisecond, 0, Callbacks{
			OnExpire: func() { fired.Add(1) },
		})
	}

	s.StopAll()

	time.Sleep(350 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	_, ok := s.TurnRemaining("a")
	assert.False(t, ok)
}

func TestOnWarnFires(t *testing.T) {
	s := NewService()
	defer s.StopAll()

	warned := make(chan struct{})
	// Warn threshold above the remaining time after the first tick: the
	// 1-second ticker must observe remaining <= warnAt
	s.StartTurnTimer("room1", 1500*time.Millisecond, time.Second, Callbacks{
		OnWarn:   func() { close(warned) },
		OnExpire: func() {},
	})

	waitSignal(t, warned, 3*time.Second, "warning callback did not fire")
}
