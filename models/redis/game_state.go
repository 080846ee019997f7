package redis

import (
	game_constants "Kkutmal/constants/game"
	"time"
)

type GameStatus string

const (
	StatusLobby           GameStatus = "lobby"
	StatusWaiting         GameStatus = "waiting"
	StatusReady           GameStatus = "ready"
	StatusStarting        GameStatus = "starting"
	StatusPlaying         GameStatus = "playing"
	StatusPaused          GameStatus = "paused"
	StatusRoundTransition GameStatus = "round_transition"
	StatusFinished        GameStatus = "finished"
)

// GameSettings is the mode config snapshot taken at room creation. It never
// changes for the lifetime of the game.
type GameSettings struct {
	Mode                game_constants.GameMode `json:"mode"`
	MinPlayers          int                     `json:"min_players"`
	MaxPlayers          int                     `json:"max_players"`
	InitialTurnTimeMs   int                     `json:"initial_turn_time_ms"`
	TurnTimeReductionMs int                     `json:"turn_time_reduction_ms"`
	MinTurnTimeMs       int                     `json:"min_turn_time_ms"`
	MaxRounds           int                     `json:"max_rounds"`
	MinWordLength       int                     `json:"min_word_length"`
	MaxWordLength       int                     `json:"max_word_length"`
	ScoreMultiplier     float64                 `json:"score_multiplier"`
	TargetScore         int                     `json:"target_score"`
	LongWordsOnly       bool                    `json:"long_words_only"`
	AllowItems          bool                    `json:"allow_items"`
	ForbiddenWords      []string                `json:"forbidden_words,omitempty"`
	// RoundPerRotation makes a full rotation back to player 0 advance the
	// round instead of only timeouts. Off by default (timeout ends rounds).
	RoundPerRotation bool `json:"round_per_rotation"`
}

// SettingsForMode snapshots the mode bundle into GameSettings
func SettingsForMode(mode game_constants.GameMode) GameSettings {
	cfg := game_constants.ConfigForMode(mode)
	return GameSettings{
		Mode:                mode,
		MinPlayers:          cfg.MinPlayers,
		MaxPlayers:          cfg.MaxPlayers,
		InitialTurnTimeMs:   cfg.InitialTurnTimeMs,
		TurnTimeReductionMs: cfg.TurnTimeReductionMs,
		MinTurnTimeMs:       cfg.MinTurnTimeMs,
		MaxRounds:           cfg.MaxRounds,
		MinWordLength:       cfg.MinWordLength,
		MaxWordLength:       cfg.MaxWordLength,
		ScoreMultiplier:     cfg.ScoreMultiplier,
		TargetScore:         cfg.TargetScore,
		LongWordsOnly:       cfg.LongWordsOnly,
		AllowItems:          cfg.AllowItems,
	}
}

// GameState is the authoritative record of one game room, stored as a single
// JSON value under game:{room_id}. The engine is the only writer; everybody
// else works on snapshots.
type GameState struct {
	RoomID  string     `json:"room_id"`
	Status  GameStatus `json:"status"`
	Players []Player   `json:"players"`

	CurrentTurnIndex  int `json:"current_turn_index"`
	CurrentRound      int `json:"current_round"`
	TotalTurnsInRound int `json:"total_turns_in_round"`
	TurnTimeLimitMs   int `json:"turn_time_limit_ms"`

	WordChain WordChainState `json:"word_chain"`
	Settings  GameSettings   `json:"game_settings"`

	// WordTimeline accumulates every accepted word across rounds; unlike
	// WordChain it survives round transitions and is persisted at game end.
	WordTimeline []ChainWord `json:"word_timeline"`

	ConsecutiveSkips int       `json:"consecutive_skips"`
	TurnStartedAt    time.Time `json:"turn_started_at"`
	StartedAt        time.Time `json:"started_at"`
	CreatedAt        time.Time `json:"created_at"`
	CreatorID        int       `json:"creator_id"`
}

// NewGameState builds the initial lobby-status state for a freshly created room
func NewGameState(roomID string, creatorID int, settings GameSettings, now time.Time) *GameState {
	return &GameState{
		RoomID:          roomID,
		Status:          StatusLobby,
		Players:         []Player{},
		CurrentRound:    1,
		TurnTimeLimitMs: settings.InitialTurnTimeMs,
		WordChain:       NewWordChainState(),
		Settings:        settings,
		CreatedAt:       now,
		CreatorID:       creatorID,
	}
}

// ComputeTurnTimeLimit applies the shrink formula for the current number of
// turns taken this round
func (g *GameState) ComputeTurnTimeLimit() int {
	limit := g.Settings.InitialTurnTimeMs - g.TotalTurnsInRound*g.Settings.TurnTimeReductionMs
	if limit < g.Settings.MinTurnTimeMs {
		limit = g.Settings.MinTurnTimeMs
	}
	return limit
}

// AdvanceTurn moves play to the next player and shrinks the turn time limit.
// It does NOT advance the round; round boundaries are driven by timeouts (or,
// with RoundPerRotation, by the engine when the index wraps to 0).
func (g *GameState) AdvanceTurn() {
	if len(g.Players) == 0 {
		return
	}
	g.TotalTurnsInRound++
	g.CurrentTurnIndex = (g.CurrentTurnIndex + 1) % len(g.Players)
	g.TurnTimeLimitMs = g.ComputeTurnTimeLimit()
}

// CompleteRound closes the current round: fresh chain, full initial time
// limit, turn back to player 0
func (g *GameState) CompleteRound() {
	g.CurrentRound++
	g.CurrentTurnIndex = 0
	g.TotalTurnsInRound = 0
	g.TurnTimeLimitMs = g.Settings.InitialTurnTimeMs
	g.WordChain.Reset()
}

// AddWord records an accepted word for the submitting player
func (g *GameState) AddWord(word string, userID int, score int, now time.Time) {
	g.WordChain.Append(word, userID, score, now)
	g.WordTimeline = append(g.WordTimeline, g.WordChain.Words[len(g.WordChain.Words)-1])
	if p := g.PlayerByID(userID); p != nil {
		p.WordsSubmitted++
	}
}

// ResetForNewGame returns the room to the waiting state after a finished
// game, clearing scores and per-round stats but keeping the roster
func (g *GameState) ResetForNewGame() {
	g.Status = StatusWaiting
	g.CurrentTurnIndex = 0
	g.CurrentRound = 1
	g.TotalTurnsInRound = 0
	g.TurnTimeLimitMs = g.Settings.InitialTurnTimeMs
	g.ConsecutiveSkips = 0
	g.WordChain.Reset()
	g.WordTimeline = nil
	g.StartedAt = time.Time{}
	g.TurnStartedAt = time.Time{}
	for i := range g.Players {
		g.Players[i].Status = PlayerWaiting
		g.Players[i].Score = 0
		g.Players[i].CurrentCombo = 0
		g.Players[i].MaxCombo = 0
		g.Players[i].WordsSubmitted = 0
		g.Players[i].ItemsUsed = 0
		g.Players[i].ConsecutiveSuccess = 0
		g.Players[i].LongestWord = ""
		g.Players[i].TotalResponseMs = 0
		g.Players[i].ResponseSamples = 0
	}
}

// CurrentPlayer returns the player whose turn it is, nil outside of play
func (g *GameState) CurrentPlayer() *Player {
	if g.CurrentTurnIndex < 0 || g.CurrentTurnIndex >= len(g.Players) {
		return nil
	}
	return &g.Players[g.CurrentTurnIndex]
}

// PlayerByID returns a pointer into the Players slice, nil when absent
func (g *GameState) PlayerByID(userID int) *Player {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// PlayerIndex returns the turn index of userID, -1 when absent
func (g *GameState) PlayerIndex(userID int) int {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Host returns the current host, nil if the room is empty
func (g *GameState) Host() *Player {
	for i := range g.Players {
		if g.Players[i].IsHost {
			return &g.Players[i]
		}
	}
	return nil
}

// RemovePlayer drops userID from the roster, keeping the turn index pointed
// at the same player when possible. Returns false when the player was absent.
func (g *GameState) RemovePlayer(userID int) bool {
	idx := g.PlayerIndex(userID)
	if idx < 0 {
		return false
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if len(g.Players) == 0 {
		g.CurrentTurnIndex = 0
		return true
	}
	if idx < g.CurrentTurnIndex {
		g.CurrentTurnIndex--
	}
	if g.CurrentTurnIndex >= len(g.Players) {
		g.CurrentTurnIndex = 0
	}
	return true
}

// TransferHost makes the first player in the roster the host. Used when the
// host leaves before the game starts.
func (g *GameState) TransferHost() *Player {
	for i := range g.Players {
		g.Players[i].IsHost = false
	}
	if len(g.Players) == 0 {
		return nil
	}
	g.Players[0].IsHost = true
	return &g.Players[0]
}

// AllReady reports whether every player has flagged ready
func (g *GameState) AllReady() bool {
	if len(g.Players) == 0 {
		return false
	}
	for i := range g.Players {
		if g.Players[i].Status != PlayerReady {
			return false
		}
	}
	return true
}

// Scores returns the user_id -> score map broadcast with submissions
func (g *GameState) Scores() map[int]int {
	scores := make(map[int]int, len(g.Players))
	for i := range g.Players {
		scores[g.Players[i].UserID] = g.Players[i].Score
	}
	return scores
}
