package game

import "errors"

// Domain errors surfaced to the session layer as typed *_failed events
var (
	ErrAlreadyExists    = errors.New("game already exists")
	ErrNotFound         = errors.New("game not found")
	ErrInvalidState     = errors.New("operation not allowed in current game state")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotReady         = errors.New("not all players are ready")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrDuplicate        = errors.New("player already in game")
	ErrFull             = errors.New("game is full")
	ErrElsewhereActive  = errors.New("player already has an active game")
)
