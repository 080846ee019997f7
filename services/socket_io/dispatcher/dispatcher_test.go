package dispatcher

import (
	socketio_types "Kkutmal/services/socket_io/types"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher() *Dispatcher {
	return NewDispatcher(socketio_types.NewSocketServer())
}

func TestClassifyUrgency(t *testing.T) {
	assert.Equal(t, UrgencyLow, ClassifyUrgency(60))
	assert.Equal(t, UrgencyLow, ClassifyUrgency(31))
	assert.Equal(t, UrgencyMedium, ClassifyUrgency(30))
	assert.Equal(t, UrgencyMedium, ClassifyUrgency(16))
	assert.Equal(t, UrgencyHigh, ClassifyUrgency(15))
	assert.Equal(t, UrgencyHigh, ClassifyUrgency(11))
	assert.Equal(t, UrgencyCritical, ClassifyUrgency(10))
	assert.Equal(t, UrgencyCritical, ClassifyUrgency(1))
	assert.Equal(t, UrgencyCritical, ClassifyUrgency(0))
}

func TestTimerEventNames(t *testing.T) {
	assert.Equal(t, "game_time_update", timerEventName(UrgencyLow))
	assert.Equal(t, "game_time_warning", timerEventName(UrgencyMedium))
	assert.Equal(t, "game_time_critical", timerEventName(UrgencyHigh))
	assert.Equal(t, "game_time_urgent", timerEventName(UrgencyCritical))
}

func TestShouldEmitTimerUpdateCadence(t *testing.T) {
	// Inside the critical window: every second
	for sec := 0; sec <= 10; sec++ {
		assert.True(t, ShouldEmitTimerUpdate(sec), "second %d", sec)
	}

	// 11..30: every 5 seconds
	assert.True(t, ShouldEmitTimerUpdate(30))
	assert.True(t, ShouldEmitTimerUpdate(25))
	assert.True(t, ShouldEmitTimerUpdate(15))
	assert.False(t, ShouldEmitTimerUpdate(29))
	assert.False(t, ShouldEmitTimerUpdate(17))

	// Far out: every 30 seconds
	assert.True(t, ShouldEmitTimerUpdate(60))
	assert.True(t, ShouldEmitTimerUpdate(90))
	assert.False(t, ShouldEmitTimerUpdate(45))
	assert.False(t, ShouldEmitTimerUpdate(31))
}

func TestSuppressDeduplicatesIdenticalPayloads(t *testing.T) {
	d := testDispatcher()

	data := gin.H{"round": 2, "current_player_id": 7}
	assert.False(t, d.suppress("room1", "round_update", data))
	assert.True(t, d.suppress("room1", "round_update", data))

	// Timestamp differences do not defeat the dedup
	stamped := gin.H{"round": 2, "current_player_id": 7, "timestamp": "2026-08-31T10:00:00Z"}
	assert.True(t, d.suppress("room1", "round_update", stamped))

	// A changed payload goes through
	assert.False(t, d.suppress("room1", "round_update", gin.H{"round": 3, "current_player_id": 7}))

	// Same payload, different event type or room: independent entries
	assert.False(t, d.suppress("room1", "other_event", data))
	assert.False(t, d.suppress("room2", "round_update", data))
}

func TestSuppressCriticalWindowOverride(t *testing.T) {
	d := testDispatcher()

	critical := gin.H{"remaining_seconds": 5}
	assert.False(t, d.suppress("room1", "game_time_urgent", critical))
	// Identical timer payloads inside the critical window are never suppressed
	assert.False(t, d.suppress("room1", "game_time_urgent", critical))

	outside := gin.H{"remaining_seconds": 25}
	assert.False(t, d.suppress("room1", "game_time_warning", outside))
	assert.True(t, d.suppress("room1", "game_time_warning", outside))

	// Non-timer events get no override even with a matching field
	other := gin.H{"remaining_seconds": 5}
	assert.False(t, d.suppress("room1", "round_update", other))
	assert.True(t, d.suppress("room1", "round_update", other))
}

func TestPurgeRoomClearsDedup(t *testing.T) {
	d := testDispatcher()

	data := gin.H{"winner": 3}
	assert.False(t, d.suppress("room1", "game_completed", data))
	assert.True(t, d.suppress("room1", "game_completed", data))

	d.PurgeRoom("room1")
	assert.False(t, d.suppress("room1", "game_completed", data))
}

func TestDedupCacheBounded(t *testing.T) {
	d := testDispatcher()

	for i := 0; i < maxTrackedRooms+20; i++ {
		d.suppress(fmt.Sprintf("room%d", i), "event", gin.H{"n": i})
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.LessOrEqual(t, len(d.last), maxTrackedRooms)
}

func TestWithTimestamp(t *testing.T) {
	data := gin.H{"round": 1}
	stamped := withTimestamp(data)

	require.Contains(t, stamped, "timestamp")
	assert.Equal(t, 1, stamped["round"])
	// The original map is untouched
	assert.NotContains(t, data, "timestamp")
}

func TestRemainingSeconds(t *testing.T) {
	sec, ok := remainingSeconds(gin.H{"remaining_seconds": 7})
	require.True(t, ok)
	assert.Equal(t, 7, sec)

	sec, ok = remainingSeconds(gin.H{"remaining_seconds": float64(12)})
	require.True(t, ok)
	assert.Equal(t, 12, sec)

	_, ok = remainingSeconds(gin.H{"other": 1})
	assert.False(t, ok)
}
