package dispatcher

import (
	"github.com/gin-gonic/gin"
)

// Urgency classifies how close a turn timer is to expiring
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ClassifyUrgency maps remaining seconds to an urgency level
func ClassifyUrgency(remainingSec int) Urgency {
	switch {
	case remainingSec > 30:
		return UrgencyLow
	case remainingSec > 15:
		return UrgencyMedium
	case remainingSec > 10:
		return UrgencyHigh
	default:
		return UrgencyCritical
	}
}

// timerEventName picks the event type for an urgency level. All names share
// the game_time_ prefix the dedup critical-window override keys on.
func timerEventName(urgency Urgency) string {
	switch urgency {
	case UrgencyMedium:
		return "game_time_warning"
	case UrgencyHigh:
		return "game_time_critical"
	case UrgencyCritical:
		return "game_time_urgent"
	default:
		return "game_time_update"
	}
}

// ShouldEmitTimerUpdate implements the tick cadence: every 30s while far
// out, every 5s through the 30..15s band, every second at 10s or less.
func ShouldEmitTimerUpdate(remainingSec int) bool {
	switch {
	case remainingSec <= 10:
		return true
	case remainingSec <= 30:
		return remainingSec%5 == 0
	default:
		return remainingSec%30 == 0
	}
}

// BroadcastTimerUpdate emits one turn-timer tick to the room, applying the
// cadence filter and urgency classification
func (d *Dispatcher) BroadcastTimerUpdate(roomID string, currentPlayerID int, remainingSec, limitSec int) {
	if !ShouldEmitTimerUpdate(remainingSec) {
		return
	}

	urgency := ClassifyUrgency(remainingSec)
	d.Broadcast(roomID, timerEventName(urgency), gin.H{
		"room_id":           roomID,
		"current_player_id": currentPlayerID,
		"remaining_seconds": remainingSec,
		"time_limit":        limitSec,
		"urgency":           string(urgency),
	})
}
