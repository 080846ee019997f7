package redis

import "time"

// ChatMessage represents a message in the room chat
type ChatMessage struct {
	Message   string    `json:"message"`
	UserID    int       `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Timestamp time.Time `json:"timestamp"`
}
