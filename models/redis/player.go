package redis

type PlayerStatus string

const (
	PlayerWaiting PlayerStatus = "waiting"
	PlayerReady   PlayerStatus = "ready"
	PlayerPlaying PlayerStatus = "playing"
)

// Player represents a participant inside a game room. Players are embedded
// by value in the GameState snapshot; insertion order is the turn order
// after the start-of-game shuffle.
type Player struct {
	UserID   int          `json:"user_id"`
	Nickname string       `json:"nickname"`
	Status   PlayerStatus `json:"status"`
	IsHost   bool         `json:"is_host"`

	// Running stats for the current game
	Score              int    `json:"score"`
	CurrentCombo       int    `json:"current_combo"`
	MaxCombo           int    `json:"max_combo"`
	WordsSubmitted     int    `json:"words_submitted"`
	ItemsUsed          int    `json:"items_used"`
	ConsecutiveSuccess int    `json:"consecutive_success"`
	LongestWord        string `json:"longest_word"`
	TotalResponseMs    int64  `json:"total_response_ms"`
	ResponseSamples    int    `json:"response_samples"`
}

// AverageResponseMs returns the mean response time over all accepted
// submissions, 0 when the player has not submitted yet
func (p *Player) AverageResponseMs() int64 {
	if p.ResponseSamples == 0 {
		return 0
	}
	return p.TotalResponseMs / int64(p.ResponseSamples)
}

// RecordResponse folds a submission response time into the aggregates
func (p *Player) RecordResponse(responseMs int64) {
	p.TotalResponseMs += responseMs
	p.ResponseSamples++
}
