package redis

import "time"

// TurnTimerInfo is the snapshot of the active turn timer stored under
// timer:{room_id}. At most one non-cancelled turn timer exists per room.
type TurnTimerInfo struct {
	TimerID         string    `json:"timer_id"`
	RoomID          string    `json:"room_id"`
	CurrentPlayerID int       `json:"current_player_id"`
	DurationMs      int       `json:"duration_ms"`
	RemainingMs     int       `json:"remaining_ms"`
	StartedAt       time.Time `json:"started_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}
