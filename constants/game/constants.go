package game_constants

import "time"

// Turn timing defaults (milliseconds). The per-turn limit shrinks every turn:
// limit = max(MinTurnTime, InitialTurnTime - totalTurnsInRound*TurnTimeReduction)
const (
	InitialTurnTimeMs   = 30000
	TurnTimeReductionMs = 5000
	MinTurnTimeMs       = 100
)

const (
	DefaultMinPlayers = 2
	DefaultMaxPlayers = 8
	DefaultMaxRounds  = 5

	DefaultMinWordLength = 2
	DefaultMaxWordLength = 10
)

// Countdowns and hard limits
const (
	GameStartCountdown  = 3 * time.Second
	RoundStartCountdown = 2 * time.Second
	RoomDisbandDelay    = 5 * time.Second
	MaxGameDuration     = 30 * time.Minute
)

// Timer warning thresholds
const (
	TurnWarningThreshold = 5 * time.Second
	GameWarningThreshold = 60 * time.Second
)

// Redis TTLs
const (
	GameStateTTL     = 24 * time.Hour
	WordCacheHitTTL  = 1 * time.Hour
	WordCacheMissTTL = 5 * time.Minute
	HintsCacheTTL    = 10 * time.Minute
	CountCacheTTL    = 1 * time.Hour
)

// Optimistic transaction retry budget (10/20/30 ms backoff)
const (
	TxMaxRetries    = 3
	TxBackoffStepMs = 10
	RedisOpTimeout  = 5 * time.Second
)

// Scoring caps and tiers
const (
	MaxComboMultiplier   = 3.0
	ComboStep            = 0.1
	MaxResponseFactor    = 1.5
	MaxModeMultiplier    = 5.0
	LengthBonusPerSyll   = 5
	LengthBonusThreshold = 3
)

// DifficultyMultiplier maps dictionary difficulty 1..3 to a score multiplier.
// Unknown difficulties fall back to 1.0.
func DifficultyMultiplier(difficulty int) float64 {
	switch difficulty {
	case 2:
		return 1.5
	case 3:
		return 2.0
	default:
		return 1.0
	}
}

// RarityBonus returns the bonus tier for a dictionary frequency score.
// Rarer words (lower frequency) earn bigger bonuses.
func RarityBonus(frequency int) int {
	switch {
	case frequency >= 90:
		return 10
	case frequency >= 70:
		return 20
	case frequency >= 50:
		return 30
	default:
		return 50
	}
}

// GameMode identifies one of the preset rule bundles
type GameMode string

const (
	ModeClassic    GameMode = "classic"
	ModeBlitz      GameMode = "blitz"
	ModeMarathon   GameMode = "marathon"
	ModeTeamBattle GameMode = "team_battle"
	ModeSurvival   GameMode = "survival"
	ModeChallenge  GameMode = "challenge"
	ModePractice   GameMode = "practice"
)

// ModeConfig is the bundle of settings a game mode selects
type ModeConfig struct {
	MinPlayers          int
	MaxPlayers          int
	InitialTurnTimeMs   int
	TurnTimeReductionMs int
	MinTurnTimeMs       int
	MaxRounds           int
	MinWordLength       int
	MaxWordLength       int
	ScoreMultiplier     float64
	TargetScore         int
	LongWordsOnly       bool
	AllowItems          bool
}

// ModeConfigs holds the preset bundle for every supported game mode
var ModeConfigs = map[GameMode]ModeConfig{
	ModeClassic: {
		MinPlayers: 2, MaxPlayers: 8,
		InitialTurnTimeMs: 30000, TurnTimeReductionMs: 5000, MinTurnTimeMs: 100,
		MaxRounds:     5,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 1.0, AllowItems: true,
	},
	ModeBlitz: {
		MinPlayers: 2, MaxPlayers: 8,
		InitialTurnTimeMs: 15000, TurnTimeReductionMs: 3000, MinTurnTimeMs: 100,
		MaxRounds:     5,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 1.5, AllowItems: false,
	},
	ModeMarathon: {
		MinPlayers: 2, MaxPlayers: 8,
		InitialTurnTimeMs: 30000, TurnTimeReductionMs: 2000, MinTurnTimeMs: 5000,
		MaxRounds:     10,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 1.0, AllowItems: true,
	},
	ModeTeamBattle: {
		MinPlayers: 4, MaxPlayers: 8,
		InitialTurnTimeMs: 30000, TurnTimeReductionMs: 5000, MinTurnTimeMs: 100,
		MaxRounds:     5,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 1.0, TargetScore: 5000, AllowItems: true,
	},
	ModeSurvival: {
		MinPlayers: 2, MaxPlayers: 8,
		InitialTurnTimeMs: 20000, TurnTimeReductionMs: 5000, MinTurnTimeMs: 100,
		MaxRounds:     10,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 2.0, AllowItems: false,
	},
	ModeChallenge: {
		MinPlayers: 2, MaxPlayers: 8,
		InitialTurnTimeMs: 30000, TurnTimeReductionMs: 5000, MinTurnTimeMs: 100,
		MaxRounds:     5,
		MinWordLength: 5, MaxWordLength: 10,
		ScoreMultiplier: 2.5, LongWordsOnly: true, AllowItems: false,
	},
	ModePractice: {
		MinPlayers: 1, MaxPlayers: 1,
		InitialTurnTimeMs: 60000, TurnTimeReductionMs: 0, MinTurnTimeMs: 60000,
		MaxRounds:     1,
		MinWordLength: 2, MaxWordLength: 10,
		ScoreMultiplier: 0.5, AllowItems: false,
	},
}

// ConfigForMode resolves the bundle for a mode, defaulting to classic
func ConfigForMode(mode GameMode) ModeConfig {
	if cfg, ok := ModeConfigs[mode]; ok {
		return cfg
	}
	return ModeConfigs[ModeClassic]
}
