package game

import (
	game_constants "Kkutmal/constants/game"
	redis_models "Kkutmal/models/redis"
	redis_services "Kkutmal/services/redis"
	"Kkutmal/services/timer"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// timerCallbacks wires one turn's countdown to the engine. The round the
// timer was armed for travels with the callback so a stale expiry (the turn
// already moved on) is rejected inside the timeout transaction.
func timerCallbacks(e *Engine, roomID string, currentID, expectedRound, limitSec int) timer.Callbacks {
	return timer.Callbacks{
		OnTick: func(remaining time.Duration) {
			e.dispatcher.BroadcastTimerUpdate(roomID, currentID, int(remaining/time.Second), limitSec)
		},
		OnWarn: func() {
			log.Printf("[TIMER-WARN] Room %s: player %d has %v left", roomID, currentID, game_constants.TurnWarningThreshold)
		},
		OnExpire: func() {
			e.TurnTimeout(roomID, currentID, expectedRound)
		},
	}
}

// SubmitWord runs the full submission pipeline for the player on the clock.
// Rejections are not errors: the penalty is committed, word_rejected is
// broadcast and the turn clock keeps running. Errors mean the submission
// could not be processed at all (wrong turn, room not playing, store down).
func (e *Engine) SubmitWord(roomID string, userID int, word string) error {
	e.Metrics.Submissions.Add(1)

	var (
		snapshot       *redis_models.GameState
		nickname       string
		rejection      ValidationResult
		breakdown      ScoreBreakdown
		responseMs     int64
		roundCompleted bool
		gameOver       bool
		endReason      string
	)

	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		// The store re-runs this closure after a write collision; every
		// attempt recomputes its outcome from its own snapshot
		snapshot = nil
		rejection = ""
		breakdown = ScoreBreakdown{}
		roundCompleted = false
		gameOver = false
		endReason = ""

		if state.Status != redis_models.StatusPlaying {
			return nil, ErrNotPlaying
		}
		current := state.CurrentPlayer()
		if current == nil || current.UserID != userID {
			return nil, ErrNotYourTurn
		}
		nickname = current.Nickname

		now := time.Now()
		responseMs = now.Sub(state.TurnStartedAt).Milliseconds()
		if responseMs < 0 {
			responseMs = 0
		}

		result, entry, err := ValidateWord(word, &state.WordChain, state.Settings, e.dict)
		if err != nil {
			return nil, err
		}

		if result != ResultValid {
			// Failed submission: combo breaks, turn and clock stay put
			current.ConsecutiveSuccess = 0
			current.CurrentCombo = 0
			rejection = result
			snapshot = state
			return state, nil
		}

		streak := current.ConsecutiveSuccess + 1
		breakdown = CalculateScore(entry, responseMs, state.TurnTimeLimitMs, streak, state.Settings)

		current.ConsecutiveSuccess = streak
		current.CurrentCombo = streak
		if streak > current.MaxCombo {
			current.MaxCombo = streak
		}
		current.Score += breakdown.Final
		if entry.Length > len([]rune(current.LongestWord)) {
			current.LongestWord = word
		}
		current.RecordResponse(responseMs)

		state.ConsecutiveSkips = 0
		state.AddWord(word, userID, breakdown.Final, now)
		state.AdvanceTurn()

		if state.Settings.RoundPerRotation && state.CurrentTurnIndex == 0 {
			if state.CurrentRound >= state.Settings.MaxRounds {
				state.Status = redis_models.StatusFinished
				gameOver = true
				endReason = "rounds_completed"
			} else {
				state.CompleteRound()
				state.Status = redis_models.StatusRoundTransition
				roundCompleted = true
			}
		}

		if !gameOver && !roundCompleted {
			if reason, over := gameOverReason(state); over {
				state.Status = redis_models.StatusFinished
				gameOver = true
				endReason = reason
			} else {
				state.TurnStartedAt = now
			}
		}

		snapshot = state
		return state, nil
	})

	switch {
	case errors.Is(err, redis_services.ErrConcurrencyAborted):
		e.Metrics.ConcurrencyAborts.Add(1)
		e.failSubmission(roomID)
		return err
	case err != nil:
		return err
	}

	if rejection != "" {
		e.Metrics.Rejected.Add(1)
		e.dispatcher.Broadcast(roomID, "word_rejected", gin.H{
			"room_id": roomID,
			"user_id": userID,
			"word":    word,
			"reason":  string(rejection),
		})
		return nil
	}

	e.Metrics.Accepted.Add(1)
	e.timers.CancelTurnTimer(roomID)

	payload := gin.H{
		"room_id":         roomID,
		"user_id":         userID,
		"nickname":        nickname,
		"word":            word,
		"response_ms":     responseMs,
		"score_breakdown": breakdown,
		"scores":          snapshot.Scores(),
		"next_char":       snapshot.WordChain.CurrentLastChar,
	}
	if !gameOver && !roundCompleted {
		next := snapshot.CurrentPlayer()
		if next != nil {
			payload["current_player_id"] = next.UserID
		}
		payload["time_limit"] = snapshot.TurnTimeLimitMs / 1000
	}
	e.dispatcher.Broadcast(roomID, "word_submitted", payload)

	switch {
	case gameOver:
		e.finishGame(roomID, snapshot, endReason)
	case roundCompleted:
		e.announceRoundEnd(roomID, snapshot)
	default:
		e.startTurnTimer(snapshot)
	}
	return nil
}

// failSubmission is the fatal path: the store kept rejecting the optimistic
// transaction, so play cannot continue safely. The game pauses and clients
// are told to resync.
func (e *Engine) failSubmission(roomID string) {
	e.timers.CancelTurnTimer(roomID)

	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		if state.Status != redis_models.StatusPlaying {
			return nil, nil
		}
		state.Status = redis_models.StatusPaused
		return state, nil
	})
	if err != nil {
		log.Printf("[SUBMIT-FATAL] Could not pause room %s after repeated aborts: %v", roomID, err)
	}

	e.dispatcher.Broadcast(roomID, "internal_error", gin.H{
		"room_id": roomID,
		"reason":  "state_conflict",
	})
}

// TurnTimeout ends the round when the player on the clock ran out of time.
// expectedRound pins the timeout to the round its timer was armed for; any
// mismatch (word landed first, round already moved) makes this a no-op.
func (e *Engine) TurnTimeout(roomID string, userID int, expectedRound int) {
	var (
		snapshot  *redis_models.GameState
		stale     bool
		rankings  []RankEntry
		gameOver  bool
		endReason string
	)

	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil
		stale = false
		rankings = nil
		gameOver = false
		endReason = ""

		if state.Status != redis_models.StatusPlaying {
			stale = true
			return nil, nil
		}
		if state.CurrentRound != expectedRound {
			stale = true
			return nil, nil
		}
		current := state.CurrentPlayer()
		if current == nil || current.UserID != userID {
			stale = true
			return nil, nil
		}

		current.ConsecutiveSuccess = 0
		current.CurrentCombo = 0
		state.ConsecutiveSkips++

		rankings = ComputeRankings(state.Players)

		if reason, over := gameOverReason(state); over {
			state.Status = redis_models.StatusFinished
			gameOver = true
			endReason = reason
		} else if state.CurrentRound >= state.Settings.MaxRounds {
			state.Status = redis_models.StatusFinished
			gameOver = true
			endReason = "rounds_completed"
		} else {
			state.CompleteRound()
			state.Status = redis_models.StatusRoundTransition
		}

		snapshot = state
		return state, nil
	})
	if err != nil {
		log.Printf("[TIMEOUT-ERROR] Could not process timeout in room %s: %v", roomID, err)
		return
	}
	if stale {
		log.Printf("[TIMEOUT] Stale timeout for room %s (user %d, round %d), ignoring", roomID, userID, expectedRound)
		return
	}

	e.Metrics.Timeouts.Add(1)

	if err := e.store.DeleteTurnTimer(roomID); err != nil {
		log.Printf("[TIMEOUT-WARN] Could not drop timer snapshot for room %s: %v", roomID, err)
	}

	e.dispatcher.Broadcast(roomID, "turn_timeout", gin.H{
		"room_id": roomID,
		"user_id": userID,
		"round":   expectedRound,
	})
	e.dispatcher.Broadcast(roomID, "round_completed", gin.H{
		"room_id":  roomID,
		"round":    expectedRound,
		"rankings": rankings,
	})

	if gameOver {
		e.finishGame(roomID, snapshot, endReason)
		return
	}
	e.announceRoundTransition(roomID, snapshot)
}

// announceRoundEnd publishes the intermediate rankings after a rotation-based
// round end and hands over to the transition countdown
func (e *Engine) announceRoundEnd(roomID string, snapshot *redis_models.GameState) {
	// CompleteRound already advanced the counter; the round that just ended
	// is the previous one
	e.dispatcher.Broadcast(roomID, "round_completed", gin.H{
		"room_id":  roomID,
		"round":    snapshot.CurrentRound - 1,
		"rankings": ComputeRankings(snapshot.Players),
	})
	e.announceRoundTransition(roomID, snapshot)
}

// announceRoundTransition starts the short pause between rounds
func (e *Engine) announceRoundTransition(roomID string, snapshot *redis_models.GameState) {
	e.dispatcher.Broadcast(roomID, "round_transition", gin.H{
		"room_id":    roomID,
		"next_round": snapshot.CurrentRound,
		"seconds":    int(game_constants.RoundStartCountdown.Seconds()),
	})
	go e.startNextRound(roomID, snapshot.CurrentRound)
}

// startNextRound waits out the transition pause and opens the next round.
// The expected round number guards against the room having moved on (game
// ended, host left) while this goroutine slept.
func (e *Engine) startNextRound(roomID string, expectedRound int) {
	time.Sleep(game_constants.RoundStartCountdown)

	now := time.Now()
	var snapshot *redis_models.GameState
	err := e.store.TransactGameState(roomID, func(state *redis_models.GameState) (*redis_models.GameState, error) {
		snapshot = nil

		if state.Status != redis_models.StatusRoundTransition {
			return nil, nil
		}
		if state.CurrentRound != expectedRound {
			return nil, nil
		}

		state.Status = redis_models.StatusPlaying
		state.TurnStartedAt = now
		snapshot = state
		return state, nil
	})
	if err != nil {
		log.Printf("[ROUND-ADVANCE-ERROR] Could not open round %d in room %s: %v", expectedRound, roomID, err)
		return
	}
	if snapshot == nil {
		log.Printf("[ROUND-ADVANCE] Transition to round %d in room %s was stale, skipping", expectedRound, roomID)
		return
	}

	current := snapshot.CurrentPlayer()
	payload := gin.H{
		"room_id":    roomID,
		"round":      snapshot.CurrentRound,
		"max_rounds": snapshot.Settings.MaxRounds,
		"time_limit": snapshot.TurnTimeLimitMs / 1000,
	}
	if current != nil {
		payload["current_player_id"] = current.UserID
		payload["nickname"] = current.Nickname
	}
	e.dispatcher.Broadcast(roomID, "next_round_starting", payload)

	e.startTurnTimer(snapshot)
}

// gameOverReason evaluates the end-of-game predicates against a state that
// is mid-transaction. Round exhaustion is checked by the callers at the
// round boundary; this covers everything else. Leavers are removed from the
// roster, so the seated players are the active players.
func gameOverReason(state *redis_models.GameState) (string, bool) {
	if len(state.Players) <= 1 && state.Settings.MinPlayers > 1 {
		return "not_enough_players", true
	}
	if state.Settings.TargetScore > 0 {
		if lo.SomeBy(state.Players, func(p redis_models.Player) bool {
			return p.Score >= state.Settings.TargetScore
		}) {
			return "target_score", true
		}
	}
	if state.ConsecutiveSkips >= 2*len(state.Players) && len(state.Players) > 0 {
		return "too_many_skips", true
	}
	if !state.StartedAt.IsZero() && time.Since(state.StartedAt) >= game_constants.MaxGameDuration {
		return "time_limit", true
	}
	return "", false
}
