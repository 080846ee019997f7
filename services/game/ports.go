package game

import (
	redis_models "Kkutmal/models/redis"
	"Kkutmal/services/timer"
	"time"

	"github.com/gin-gonic/gin"
)

// GameStore is the KV gateway the engine mutates room state through. The
// Redis client implements it; tests use an in-memory store with the same
// compare-and-swap transaction semantics.
type GameStore interface {
	SaveGameState(state *redis_models.GameState) error
	GetGameState(roomID string) (*redis_models.GameState, error)
	DeleteGameState(roomID string) error
	TransactGameState(roomID string, fn func(state *redis_models.GameState) (*redis_models.GameState, error)) error

	SaveTurnTimer(info *redis_models.TurnTimerInfo) error
	DeleteTurnTimer(roomID string) error

	AddActiveGame(roomID string) error
	RemoveActiveGame(roomID string) error
	AddPlayerGame(userID int, roomID string) error
	RemovePlayerGame(userID int, roomID string) error
	GetPlayerGames(userID int) ([]string, error)
}

// Dictionary resolves words, hints and counts for the validator and the
// session layer
type Dictionary interface {
	Lookup(word string) (*redis_models.CachedWordEntry, error)
	Hints(lastChar string, n int) ([]string, error)
	PossibleCount(lastChar string) (int64, error)
}

// Timers is the countdown service driving turn deadlines
type Timers interface {
	StartTurnTimer(roomID string, duration, warnBefore time.Duration, cb timer.Callbacks) string
	CancelTurnTimer(roomID string)
	TurnRemaining(roomID string) (time.Duration, bool)
}

// Dispatcher fans engine events out to connected clients
type Dispatcher interface {
	Broadcast(roomID string, event string, data gin.H)
	SendToUser(userID int, event string, data gin.H)
	BroadcastTimerUpdate(roomID string, currentPlayerID int, remainingSec, limitSec int)
	PurgeRoom(roomID string)
}

// FinishedGameSink archives completed games; the engine only writes
type FinishedGameSink interface {
	PersistFinishedGame(state *redis_models.GameState, rankings []RankEntry, reason string) error
}
