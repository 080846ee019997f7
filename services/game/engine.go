package game

import (
	game_constants "Kkutmal/constants/game"
	redis_models "Kkutmal/models/redis"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Engine drives the whole game lifecycle. Every mutation of room state goes
// through an optimistic transaction on the store; events to clients go out
// through the dispatcher after the transaction has committed.
type Engine struct {
	store      GameStore
	dict       Dictionary
	timers     Timers
	dispatcher Dispatcher
	sink       FinishedGameSink
	Metrics    Metrics
}

func NewEngine(store GameStore, dict Dictionary, timers Timers, dispatcher Dispatcher, sink FinishedGameSink) *Engine {
	return &Engine{
		store:      store,
		dict:       dict,
		timers:     timers,
		dispatcher: dispatcher,
		sink:       sink,
	}
}

// CreateGame creates a new room for the given mode and returns its id. An
// empty roomID asks the engine to generate one.
func (e *Engine) CreateGame(roomID string, creatorID int, mode game_constants.GameMode) (string, error) {
	if roomID == "" {
		roomID = uuid.NewString()[:8]
	}

	if existing, err := e.store.GetGameState(roomID); err == nil && existing != nil {
		return "", ErrAlreadyExists
	}

	state := redis_models.NewGameState(roomID, creatorID, redis_models.SettingsForMode(mode), time.Now())
	if err := e.store.SaveGameState(state); err != nil {
		return "", fmt.Errorf("error creating game %s: %v", roomID, err)
	}
	if err := e.store.AddActiveGame(roomID); err != nil {
		log.Printf("[GAME-CREATE-WARN] Could not register %s in the active set: %v", roomID, err)
	}

	log.Printf("[GAME-CREATE] Room %s created by user %d (mode %s)", roomID, creatorID, mode)
	return roomID, nil
}

// Join adds a player to a room. A player can only sit in one room at a time.
func (e *Engine) Join(roomID string, userID int, nickname string) error {
	rooms, err := e.store.GetPlayerGames(userID)
	if err == nil {
		for _, other := range rooms {
			if other != roomID {
				return ErrElsewhereActive
			}
		}
	}

	var snapshot *redis_models.GameState
	err = e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil

		if state.Status != redis_models.StatusLobby && state.Status != redis_models.StatusWaiting {
			return nil, ErrInvalidState
		}
		if state.PlayerByID(userID) != nil {
			return nil, ErrDuplicate
		}
		if len(state.Players) >= state.Settings.MaxPlayers {
			return nil, ErrFull
		}

		state.Players = append(state.Players, redis_models.Player{
			UserID:   userID,
			Nickname: nickname,
			Status:   redis_models.PlayerWaiting,
			IsHost:   len(state.Players) == 0,
		})
		state.Status = redis_models.StatusWaiting
		snapshot = state
		return state, nil
	})
	if err != nil {
		return err
	}

	if err := e.store.AddPlayerGame(userID, roomID); err != nil {
		log.Printf("[GAME-JOIN-WARN] Could not index room %s for user %d: %v", roomID, userID, err)
	}

	joined := snapshot.PlayerByID(userID)
	e.dispatcher.Broadcast(roomID, "player_joined", gin.H{
		"room_id":      roomID,
		"user_id":      userID,
		"nickname":     nickname,
		"is_host":      joined != nil && joined.IsHost,
		"player_count": len(snapshot.Players),
	})
	return nil
}

// Ready toggles a player's ready flag. The room flips to ready status once
// every seated player is ready and the minimum headcount is met.
func (e *Engine) Ready(roomID string, userID int, ready bool) error {
	var snapshot *redis_models.GameState
	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil

		if state.Status != redis_models.StatusWaiting && state.Status != redis_models.StatusReady {
			return nil, ErrInvalidState
		}
		p := state.PlayerByID(userID)
		if p == nil {
			return nil, ErrNotFound
		}

		if ready {
			p.Status = redis_models.PlayerReady
		} else {
			p.Status = redis_models.PlayerWaiting
		}

		if state.AllReady() && len(state.Players) >= state.Settings.MinPlayers {
			state.Status = redis_models.StatusReady
		} else {
			state.Status = redis_models.StatusWaiting
		}
		snapshot = state
		return state, nil
	})
	if err != nil {
		return err
	}

	e.dispatcher.Broadcast(roomID, "player_ready_status", gin.H{
		"room_id":     roomID,
		"user_id":     userID,
		"ready":       ready,
		"room_status": string(snapshot.Status),
	})
	return nil
}

// Start is the host's go signal. It shuffles the turn order, announces a
// countdown and flips the room to playing once the countdown elapses.
func (e *Engine) Start(roomID string, userID int) error {
	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		if state.Status != redis_models.StatusReady {
			return nil, ErrInvalidState
		}
		host := state.Host()
		if host == nil || host.UserID != userID {
			return nil, ErrNotHost
		}
		if len(state.Players) < state.Settings.MinPlayers {
			return nil, ErrNotEnoughPlayers
		}
		if !state.AllReady() {
			return nil, ErrNotReady
		}

		state.Players = lo.Shuffle(state.Players)
		state.Status = redis_models.StatusStarting
		return state, nil
	})
	if err != nil {
		return err
	}

	e.dispatcher.Broadcast(roomID, "game_starting_countdown", gin.H{
		"room_id": roomID,
		"seconds": int(game_constants.GameStartCountdown.Seconds()),
	})
	go e.beginAfterCountdown(roomID)
	return nil
}

// beginAfterCountdown runs in its own goroutine: it waits out the start
// countdown and then flips the room into play. A room that is no longer in
// starting status (host left, room disbanded) makes this a no-op.
func (e *Engine) beginAfterCountdown(roomID string) {
	time.Sleep(game_constants.GameStartCountdown)

	now := time.Now()
	var snapshot *redis_models.GameState
	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil

		if state.Status != redis_models.StatusStarting {
			return nil, nil
		}

		state.Status = redis_models.StatusPlaying
		state.CurrentRound = 1
		state.CurrentTurnIndex = 0
		state.TotalTurnsInRound = 0
		state.TurnTimeLimitMs = state.Settings.InitialTurnTimeMs
		state.ConsecutiveSkips = 0
		state.WordChain.Reset()
		state.WordTimeline = nil
		state.StartedAt = now
		state.TurnStartedAt = now
		for i := range state.Players {
			state.Players[i].Status = redis_models.PlayerPlaying
		}
		snapshot = state
		return state, nil
	})
	if err != nil {
		log.Printf("[GAME-START-ERROR] Could not begin game in room %s: %v", roomID, err)
		return
	}
	if snapshot == nil {
		log.Printf("[GAME-START] Countdown for room %s was stale, skipping", roomID)
		return
	}

	e.Metrics.GamesStarted.Add(1)

	current := snapshot.CurrentPlayer()
	turnOrder := lo.Map(snapshot.Players, func(p redis_models.Player, _ int) gin.H {
		return gin.H{"user_id": p.UserID, "nickname": p.Nickname}
	})
	e.dispatcher.Broadcast(roomID, "game_started", gin.H{
		"room_id":           roomID,
		"round":             snapshot.CurrentRound,
		"max_rounds":        snapshot.Settings.MaxRounds,
		"turn_order":        turnOrder,
		"current_player_id": current.UserID,
		"time_limit":        snapshot.TurnTimeLimitMs / 1000,
	})

	e.startTurnTimer(snapshot)
	go e.durationWatchdog(roomID, snapshot.StartedAt)
}

// durationWatchdog force-ends games that run past the hard duration cap
func (e *Engine) durationWatchdog(roomID string, startedAt time.Time) {
	time.Sleep(game_constants.MaxGameDuration)

	state, err := e.store.GetGameState(roomID)
	if err != nil || state == nil {
		return
	}
	// The room may have finished and restarted since; only the game this
	// watchdog was armed for gets terminated
	if state.Status != redis_models.StatusPlaying && state.Status != redis_models.StatusRoundTransition {
		return
	}
	if !state.StartedAt.Equal(startedAt) {
		return
	}

	log.Printf("[GAME-WATCHDOG] Room %s exceeded the maximum game duration, ending", roomID)
	if err := e.EndGame(roomID, "time_limit"); err != nil {
		log.Printf("[GAME-WATCHDOG-ERROR] Could not end room %s: %v", roomID, err)
	}
}

// Leave removes a player from their room and handles every side effect:
// host transfer in the lobby, termination when the host abandons a running
// game, a walkover win when only one player remains, and turn handoff when
// the leaver was the one on the clock.
func (e *Engine) Leave(roomID string, userID int) error {
	var (
		snapshot     *redis_models.GameState
		leaver       redis_models.Player
		found        bool
		emptied      bool
		newHost      *redis_models.Player
		hostAbandon  bool
		walkover     bool
		turnHandoff  bool
	)

	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		// Recompute from scratch on every optimistic-transaction attempt
		snapshot = nil
		leaver = redis_models.Player{}
		found = false
		emptied = false
		newHost = nil
		hostAbandon = false
		walkover = false
		turnHandoff = false

		p := state.PlayerByID(userID)
		if p == nil {
			return nil, nil
		}
		leaver = *p
		found = true

		inPlay := state.Status == redis_models.StatusPlaying ||
			state.Status == redis_models.StatusStarting ||
			state.Status == redis_models.StatusRoundTransition
		wasCurrent := state.Status == redis_models.StatusPlaying &&
			state.CurrentPlayer() != nil && state.CurrentPlayer().UserID == userID

		state.RemovePlayer(userID)

		if len(state.Players) == 0 {
			emptied = true
			snapshot = state
			return state, nil
		}

		switch {
		case leaver.IsHost && inPlay:
			state.Status = redis_models.StatusFinished
			hostAbandon = true
		case leaver.IsHost:
			newHost = state.TransferHost()
		case inPlay && len(state.Players) <= 1:
			state.Status = redis_models.StatusFinished
			walkover = true
		case wasCurrent:
			// RemovePlayer already points the index at the next player;
			// restart the clock for them
			state.TurnStartedAt = time.Now()
			turnHandoff = true
		}

		if !inPlay && state.Status == redis_models.StatusReady && !state.AllReady() {
			state.Status = redis_models.StatusWaiting
		}

		snapshot = state
		return state, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	if err := e.store.RemovePlayerGame(userID, roomID); err != nil {
		log.Printf("[GAME-LEAVE-WARN] Could not unindex room %s for user %d: %v", roomID, userID, err)
	}

	e.dispatcher.Broadcast(roomID, "player_left_room", gin.H{
		"room_id":      roomID,
		"user_id":      userID,
		"nickname":     leaver.Nickname,
		"player_count": len(snapshot.Players),
	})

	switch {
	case emptied:
		e.cleanupRoom(roomID, snapshot)

	case hostAbandon:
		e.timers.CancelTurnTimer(roomID)
		e.dispatcher.Broadcast(roomID, "host_left_game", gin.H{
			"room_id": roomID,
			"user_id": userID,
		})
		e.finishGame(roomID, snapshot, "host_left")
		go e.disbandAfterDelay(roomID)

	case walkover:
		e.timers.CancelTurnTimer(roomID)
		e.finishGame(roomID, snapshot, "opponent_left")

	case newHost != nil:
		e.dispatcher.Broadcast(roomID, "host_changed", gin.H{
			"room_id":  roomID,
			"user_id":  newHost.UserID,
			"nickname": newHost.Nickname,
		})

	case turnHandoff:
		e.startTurnTimer(snapshot)
	}
	return nil
}

// EndGame finishes a game on demand (host action, watchdog, admin). The
// room survives and resets to waiting for a rematch.
func (e *Engine) EndGame(roomID string, reason string) error {
	var snapshot *redis_models.GameState
	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil

		if state.Status == redis_models.StatusFinished {
			return nil, ErrInvalidState
		}
		state.Status = redis_models.StatusFinished
		snapshot = state
		return state, nil
	})
	if err != nil {
		return err
	}

	e.timers.CancelTurnTimer(roomID)
	e.finishGame(roomID, snapshot, reason)
	return nil
}

// finishGame handles everything after a game has reached finished status:
// final rankings, archive write, the game_completed broadcast and the reset
// back to a rematch-ready lobby
func (e *Engine) finishGame(roomID string, snapshot *redis_models.GameState, reason string) {
	e.Metrics.GamesFinished.Add(1)

	if err := e.store.DeleteTurnTimer(roomID); err != nil {
		log.Printf("[GAME-END-WARN] Could not drop timer snapshot for room %s: %v", roomID, err)
	}

	rankings := ComputeRankings(snapshot.Players)

	if e.sink != nil {
		if err := e.sink.PersistFinishedGame(snapshot, rankings, reason); err != nil {
			log.Printf("[GAME-END-ERROR] Could not archive game %s: %v", roomID, err)
		}
	}

	e.dispatcher.Broadcast(roomID, "game_completed", gin.H{
		"room_id":       roomID,
		"reason":        reason,
		"rounds_played": snapshot.CurrentRound,
		"words_played":  len(snapshot.WordTimeline),
		"rankings":      rankings,
	})

	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		if state.Status != redis_models.StatusFinished {
			return nil, nil
		}
		state.ResetForNewGame()
		return state, nil
	})
	if err != nil {
		log.Printf("[GAME-END-ERROR] Could not reset room %s after game end: %v", roomID, err)
	}

	e.dispatcher.PurgeRoom(roomID)
	log.Printf("[GAME-END] Room %s finished (%s)", roomID, reason)
}

// disbandAfterDelay tears the room down a few seconds after the host
// abandoned it, giving clients time to receive the final events
func (e *Engine) disbandAfterDelay(roomID string) {
	time.Sleep(game_constants.RoomDisbandDelay)

	state, err := e.store.GetGameState(roomID)
	if err != nil || state == nil {
		return
	}
	e.dispatcher.Broadcast(roomID, "game_ended", gin.H{
		"room_id": roomID,
		"reason":  "host_left",
	})
	e.cleanupRoom(roomID, state)
}

// cleanupRoom deletes every trace of a room from the store
func (e *Engine) cleanupRoom(roomID string, state *redis_models.GameState) {
	e.timers.CancelTurnTimer(roomID)

	for i := range state.Players {
		if err := e.store.RemovePlayerGame(state.Players[i].UserID, roomID); err != nil {
			log.Printf("[GAME-CLEANUP-WARN] Could not unindex room %s for user %d: %v",
				roomID, state.Players[i].UserID, err)
		}
	}
	if err := e.store.RemoveActiveGame(roomID); err != nil {
		log.Printf("[GAME-CLEANUP-WARN] Could not remove %s from the active set: %v", roomID, err)
	}
	if err := e.store.DeleteTurnTimer(roomID); err != nil {
		log.Printf("[GAME-CLEANUP-WARN] Could not drop timer snapshot for room %s: %v", roomID, err)
	}
	if err := e.store.DeleteGameState(roomID); err != nil {
		log.Printf("[GAME-CLEANUP-ERROR] Could not delete state for room %s: %v", roomID, err)
	}

	e.dispatcher.PurgeRoom(roomID)
	log.Printf("[GAME-CLEANUP] Room %s disbanded", roomID)
}

// startTurnTimer arms the countdown for the current turn of the snapshot and
// publishes the timer info so other instances can inspect it
func (e *Engine) startTurnTimer(snapshot *redis_models.GameState) {
	current := snapshot.CurrentPlayer()
	if current == nil {
		return
	}

	roomID := snapshot.RoomID
	currentID := current.UserID
	expectedRound := snapshot.CurrentRound
	limitMs := snapshot.TurnTimeLimitMs
	limitSec := limitMs / 1000
	duration := time.Duration(limitMs) * time.Millisecond

	timerID := e.timers.StartTurnTimer(roomID, duration, game_constants.TurnWarningThreshold, timerCallbacks(e, roomID, currentID, expectedRound, limitSec))

	now := time.Now()
	err := e.store.SaveTurnTimer(&redis_models.TurnTimerInfo{
		TimerID:         timerID,
		RoomID:          roomID,
		CurrentPlayerID: currentID,
		DurationMs:      limitMs,
		RemainingMs:     limitMs,
		StartedAt:       now,
		ExpiresAt:       now.Add(duration),
	})
	if err != nil {
		log.Printf("[TIMER-WARN] Could not publish timer snapshot for room %s: %v", roomID, err)
	}

	e.dispatcher.Broadcast(roomID, "turn_timer_started", gin.H{
		"room_id":           roomID,
		"current_player_id": currentID,
		"nickname":          current.Nickname,
		"time_limit":        limitSec,
		"round":             expectedRound,
	})
}
