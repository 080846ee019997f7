package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatGameKey(roomID string) string {
	return fmt.Sprintf("game:%s", roomID)
}

func FormatTimerKey(roomID string) string {
	return fmt.Sprintf("timer:%s", roomID)
}

func FormatWordCacheKey(word string) string {
	return fmt.Sprintf("word:cache:%s", word)
}

func FormatHintsKey(lastChar string) string {
	return fmt.Sprintf("word:hints:%s", lastChar)
}

func FormatCountKey(lastChar string) string {
	return fmt.Sprintf("word:count:%s", lastChar)
}

func FormatPlayerGamesKey(userID int) string {
	return fmt.Sprintf("player_games:%d", userID)
}

const ActiveGamesKey = "active_games"
