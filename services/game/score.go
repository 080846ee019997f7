package game

import (
	game_constants "Kkutmal/constants/game"
	redis_models "Kkutmal/models/redis"
	"math"
)

// ScoreBreakdown itemises how a submission's points were computed. It is
// broadcast verbatim with word_submitted so clients can animate each part.
type ScoreBreakdown struct {
	Base            float64 `json:"base"`
	RarityBonus     int     `json:"rarity_bonus"`
	LengthBonus     int     `json:"length_bonus"`
	ComboMultiplier float64 `json:"combo_multiplier"`
	ResponseFactor  float64 `json:"response_factor"`
	ModeMultiplier  float64 `json:"mode_multiplier"`
	Final           int     `json:"final"`
}

// CalculateScore computes the points for an accepted word.
// consecutiveSuccess must already include this submission (old value + 1).
func CalculateScore(entry *redis_models.CachedWordEntry, responseMs int64, limitMs int,
	consecutiveSuccess int, settings redis_models.GameSettings) ScoreBreakdown {

	base := float64(entry.Length) * game_constants.DifficultyMultiplier(entry.Difficulty)
	rarity := game_constants.RarityBonus(entry.FrequencyScore)

	lengthBonus := (entry.Length - game_constants.LengthBonusThreshold) * game_constants.LengthBonusPerSyll
	if lengthBonus < 0 {
		lengthBonus = 0
	}

	combo := 1.0 + game_constants.ComboStep*float64(consecutiveSuccess)
	if combo > game_constants.MaxComboMultiplier {
		combo = game_constants.MaxComboMultiplier
	}

	response := responseFactor(responseMs, limitMs)

	mode := settings.ScoreMultiplier
	if mode <= 0 {
		mode = 1.0
	}
	if mode > game_constants.MaxModeMultiplier {
		mode = game_constants.MaxModeMultiplier
	}

	final := math.Round((base + float64(rarity) + float64(lengthBonus)) * combo * response * mode)

	return ScoreBreakdown{
		Base:            base,
		RarityBonus:     rarity,
		LengthBonus:     lengthBonus,
		ComboMultiplier: combo,
		ResponseFactor:  response,
		ModeMultiplier:  mode,
		Final:           int(final),
	}
}

// responseFactor rewards answers faster than half the turn window, scaling
// linearly from 1.0 (at half the window or slower) up to 1.5 (instant).
func responseFactor(responseMs int64, limitMs int) float64 {
	if limitMs <= 0 || responseMs < 0 {
		return 1.0
	}
	half := float64(limitMs) / 2
	if float64(responseMs) >= half {
		return 1.0
	}
	factor := 1.0 + 0.5*(1.0-float64(responseMs)/half)
	if factor > game_constants.MaxResponseFactor {
		factor = game_constants.MaxResponseFactor
	}
	return factor
}
