package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'FinishedGame' is the archived record of a completed game, written once by
 * the sync manager when the engine finishes a room. The live game never
 * reads it back.
 */
type FinishedGame struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	RoomID       string         `gorm:"size:50;not null;index:idx_finished_games_room"`
	Mode         string         `gorm:"size:20"`
	Rounds       int            `gorm:"default:0"`
	EndReason    string         `gorm:"size:50"`
	WordTimeline datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	StartedAt    time.Time
	FinishedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Final per-player results
	Results []*FinishedGamePlayer `gorm:"foreignKey:FinishedGameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

/*
 * 'FinishedGamePlayer' is one row of the final ranking of a finished game.
 */
type FinishedGamePlayer struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	FinishedGameID uint   `gorm:"not null;index"`
	UserID         int    `gorm:"not null;index:idx_finished_game_players_user"`
	Nickname       string `gorm:"size:50"`
	Rank           int    `gorm:"default:0"`
	Score          int    `gorm:"default:0"`
	MaxCombo       int    `gorm:"default:0"`
	WordsSubmitted int    `gorm:"default:0"`
	LongestWord    string `gorm:"size:50"`
}
