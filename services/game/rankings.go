package game

import (
	redis_models "Kkutmal/models/redis"
	"sort"

	"github.com/samber/lo"
)

// RankEntry is one row of a (possibly intermediate) ranking snapshot
type RankEntry struct {
	Rank           int    `json:"rank"`
	UserID         int    `json:"user_id"`
	Nickname       string `json:"nickname"`
	Score          int    `json:"score"`
	MaxCombo       int    `json:"max_combo"`
	WordsSubmitted int    `json:"words_submitted"`
	LongestWord    string `json:"longest_word"`
	AvgResponseMs  int64  `json:"avg_response_ms"`
}

// ComputeRankings orders players by score (ties share a rank) and returns
// the snapshot broadcast with round_completed / game_completed.
func ComputeRankings(players []redis_models.Player) []RankEntry {
	entries := lo.Map(players, func(p redis_models.Player, _ int) RankEntry {
		return RankEntry{
			UserID:         p.UserID,
			Nickname:       p.Nickname,
			Score:          p.Score,
			MaxCombo:       p.MaxCombo,
			WordsSubmitted: p.WordsSubmitted,
			LongestWord:    p.LongestWord,
			AvgResponseMs:  p.AverageResponseMs(),
		}
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
