package timer

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Callbacks are invoked by a running timer task. OnTick fires roughly once a
// second with the remaining time, OnWarn once when the warning threshold is
// crossed, OnExpire once when the deadline passes. A cancelled timer never
// invokes any of them again: Cancel blocks until the task has terminated.
type Callbacks struct {
	OnTick   func(remaining time.Duration)
	OnWarn   func()
	OnExpire func()
}

type ctrlOp int

const (
	opAdjust ctrlOp = iota
	opPause
	opResume
)

type ctrlMsg struct {
	op    ctrlOp
	delta time.Duration
}

type task struct {
	id       string
	key      string
	svc      *Service
	duration time.Duration
	warnAt   time.Duration // remaining time at which OnWarn fires

	mu        sync.Mutex
	cancelled bool
	deadline  time.Time
	paused    bool
	remaining time.Duration // meaningful while paused

	ctrl chan ctrlMsg
	stop chan struct{}
	done chan struct{}
	cb   Callbacks
}

// Service owns all countdown tasks of the process. Tasks are keyed; starting
// a task under an existing key replaces it, cancelling the old instance
// first and awaiting its termination so callbacks can never double-fire.
type Service struct {
	mu    sync.Mutex
	tasks map[string]*task
}

func NewService() *Service {
	return &Service{tasks: make(map[string]*task)}
}

// turnKey namespaces the per-room turn timer; auxiliary timers (items,
// cooldowns) use their own keys via Start.
func turnKey(roomID string) string { return "turn:" + roomID }

// StartTurnTimer replaces any running turn timer for the room and starts a
// fresh countdown. Returns the new timer id.
func (s *Service) StartTurnTimer(roomID string, duration, warnBefore time.Duration, cb Callbacks) string {
	return s.Start(turnKey(roomID), duration, warnBefore, cb)
}

// CancelTurnTimer cancels the room's turn timer, if any, synchronously
func (s *Service) CancelTurnTimer(roomID string) {
	s.Cancel(turnKey(roomID))
}

// TurnRemaining reports the remaining time of the room's turn timer
func (s *Service) TurnRemaining(roomID string) (time.Duration, bool) {
	return s.Remaining(turnKey(roomID))
}

// Start launches a countdown task under key, replacing any previous task
// with the same key
func (s *Service) Start(key string, duration, warnBefore time.Duration, cb Callbacks) string {
	// Replace semantics: the old task must be fully stopped before the new
	// one exists, otherwise a stale expiry could fire after the swap
	s.Cancel(key)

	t := &task{
		id:       uuid.NewString(),
		key:      key,
		svc:      s,
		duration: duration,
		warnAt:   warnBefore,
		deadline: time.Now().Add(duration),
		ctrl:     make(chan ctrlMsg),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		cb:       cb,
	}

	s.mu.Lock()
	s.tasks[key] = t
	s.mu.Unlock()

	go t.run()

	log.Printf("[TIMER] Started timer %s (%s) for %v", t.id, key, duration)
	return t.id
}

// Cancel stops the task under key and waits for its goroutine to exit.
// After Cancel returns, none of the task's callbacks will ever fire.
func (s *Service) Cancel(key string) {
	s.mu.Lock()
	t, ok := s.tasks[key]
	if ok {
		delete(s.tasks, key)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	t.mu.Lock()
	if !t.cancelled {
		t.cancelled = true
		close(t.stop)
	}
	t.mu.Unlock()

	<-t.done
	log.Printf("[TIMER] Cancelled timer %s (%s)", t.id, key)
}

// Remaining reports the remaining time of the task under key
func (s *Service) Remaining(key string) (time.Duration, bool) {
	s.mu.Lock()
	t, ok := s.tasks[key]
	s.mu.Unlock()
	if !ok {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused {
		return t.remaining, true
	}
	rem := time.Until(t.deadline)
	if rem < 0 {
		rem = 0
	}
	return rem, true
}

// Extend pushes the deadline of the task under key back by delta
func (s *Service) Extend(key string, delta time.Duration) bool {
	return s.adjust(key, delta)
}

// Reduce pulls the deadline of the task under key forward by delta
func (s *Service) Reduce(key string, delta time.Duration) bool {
	return s.adjust(key, -delta)
}

func (s *Service) adjust(key string, delta time.Duration) bool {
	s.mu.Lock()
	t, ok := s.tasks[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case t.ctrl <- ctrlMsg{op: opAdjust, delta: delta}:
		return true
	case <-t.done:
		return false
	}
}

// Pause freezes the countdown of the task under key
func (s *Service) Pause(key string) bool {
	return s.sendCtrl(key, ctrlMsg{op: opPause})
}

// Resume restarts a paused countdown
func (s *Service) Resume(key string) bool {
	return s.sendCtrl(key, ctrlMsg{op: opResume})
}

func (s *Service) sendCtrl(key string, msg ctrlMsg) bool {
	s.mu.Lock()
	t, ok := s.tasks[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case t.ctrl <- msg:
		return true
	case <-t.done:
		return false
	}
}

// StopAll cancels every running task; used on shutdown
func (s *Service) StopAll() {
	s.mu.Lock()
	keys := make([]string, 0, len(s.tasks))
	for key := range s.tasks {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.Cancel(key)
	}
}

func (t *task) run() {
	defer close(t.done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	expire := time.NewTimer(t.duration)
	defer expire.Stop()

	warned := t.warnAt <= 0

	for {
		select {
		case <-t.stop:
			return

		case msg := <-t.ctrl:
			t.mu.Lock()
			switch msg.op {
			case opAdjust:
				if t.paused {
					t.remaining += msg.delta
					if t.remaining < 0 {
						t.remaining = 0
					}
				} else {
					t.deadline = t.deadline.Add(msg.delta)
					resetTimer(expire, time.Until(t.deadline))
				}
			case opPause:
				if !t.paused {
					t.paused = true
					t.remaining = time.Until(t.deadline)
					if t.remaining < 0 {
						t.remaining = 0
					}
					expire.Stop()
				}
			case opResume:
				if t.paused {
					t.paused = false
					t.deadline = time.Now().Add(t.remaining)
					resetTimer(expire, t.remaining)
				}
			}
			t.mu.Unlock()

		case <-ticker.C:
			t.mu.Lock()
			if t.paused || t.cancelled {
				t.mu.Unlock()
				continue
			}
			remaining := time.Until(t.deadline)
			if remaining < 0 {
				remaining = 0
			}
			fireWarn := !warned && remaining <= t.warnAt
			if fireWarn {
				warned = true
			}
			t.mu.Unlock()

			if t.cb.OnTick != nil {
				t.cb.OnTick(remaining)
			}
			if fireWarn && t.cb.OnWarn != nil {
				t.cb.OnWarn()
			}

		case <-expire.C:
			t.mu.Lock()
			if t.paused {
				t.mu.Unlock()
				continue
			}
			// A deadline adjustment may have raced the old expiry
			if remaining := time.Until(t.deadline); remaining > 10*time.Millisecond {
				resetTimer(expire, remaining)
				t.mu.Unlock()
				continue
			}
			if t.cancelled {
				t.mu.Unlock()
				return
			}
			t.mu.Unlock()

			// Deregister before firing so an expiry callback that starts or
			// cancels the same key cannot deadlock against this task
			if !t.deregister() {
				return
			}
			if t.cb.OnExpire != nil {
				t.cb.OnExpire()
			}
			return
		}
	}
}

// deregister removes the task from the service map. It returns false when
// the task is no longer registered, meaning a Cancel or replacement won the
// race and the callbacks must not fire.
func (t *task) deregister() bool {
	t.svc.mu.Lock()
	defer t.svc.mu.Unlock()
	if t.svc.tasks[t.key] != t {
		return false
	}
	delete(t.svc.tasks, t.key)
	return true
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	if d < 0 {
		d = 0
	}
	timer.Reset(d)
}
