package handlers

import (
	"errors"
	"sync"

	"Kkutmal/services/game"
	redis_services "Kkutmal/services/redis"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Session is the per-connection identity. The nickname can be changed over
// the wire (set_username) so access goes through the mutex.
type Session struct {
	UserID int

	mu       sync.RWMutex
	nickname string
}

func NewSession(userID int, nickname string) *Session {
	return &Session{UserID: userID, nickname: nickname}
}

func (s *Session) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nickname
}

func (s *Session) SetNickname(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nickname = nickname
}

// failureReason maps engine errors to the stable reason strings carried by
// *_failed events
func failureReason(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, game.ErrNotFound), errors.Is(err, redis_services.ErrNotFound):
		return "not_found"
	case errors.Is(err, game.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, game.ErrNotHost):
		return "not_host"
	case errors.Is(err, game.ErrNotReady):
		return "not_ready"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, game.ErrNotPlaying):
		return "not_playing"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrDuplicate):
		return "already_joined"
	case errors.Is(err, game.ErrFull):
		return "room_full"
	case errors.Is(err, game.ErrElsewhereActive):
		return "already_in_another_game"
	case errors.Is(err, redis_services.ErrConcurrencyAborted):
		return "state_conflict"
	default:
		return "internal_error"
	}
}

// emitFailure sends the typed failure event for one request back to its caller
func emitFailure(client *socket.Socket, event string, err error) {
	client.Emit(event, gin.H{"reason": failureReason(err)})
}

// stringArg extracts args[i] as a non-empty string
func stringArg(args []interface{}, i int) (string, bool) {
	if len(args) <= i {
		return "", false
	}
	s, ok := args[i].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
