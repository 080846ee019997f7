package sync

import (
	models "Kkutmal/models/postgres"
	redis_models "Kkutmal/models/redis"
	"Kkutmal/services/game"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SyncManager moves finished game data out of Redis into PostgreSQL. It is
// the engine's FinishedGameSink.
type SyncManager struct {
	db *gorm.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *gorm.DB) *SyncManager {
	return &SyncManager{db: db}
}

// PersistFinishedGame writes the archive record and the final ranking rows
// in one transaction
func (sm *SyncManager) PersistFinishedGame(state *redis_models.GameState,
	rankings []game.RankEntry, reason string) error {

	timeline, err := json.Marshal(state.WordTimeline)
	if err != nil {
		return fmt.Errorf("error serialising word timeline for room %s: %v", state.RoomID, err)
	}

	record := &models.FinishedGame{
		RoomID:       state.RoomID,
		Mode:         string(state.Settings.Mode),
		Rounds:       state.CurrentRound,
		EndReason:    reason,
		WordTimeline: datatypes.JSON(timeline),
		StartedAt:    state.StartedAt,
	}
	for _, entry := range rankings {
		record.Results = append(record.Results, &models.FinishedGamePlayer{
			UserID:         entry.UserID,
			Nickname:       entry.Nickname,
			Rank:           entry.Rank,
			Score:          entry.Score,
			MaxCombo:       entry.MaxCombo,
			WordsSubmitted: entry.WordsSubmitted,
			LongestWord:    entry.LongestWord,
		})
	}

	err = sm.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return fmt.Errorf("error archiving game %s in PostgreSQL: %v", state.RoomID, err)
	}

	log.Printf("[SYNC] Archived game %s (%d players, reason %s)", state.RoomID, len(rankings), reason)
	return nil
}
