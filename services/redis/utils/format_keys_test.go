package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "game:room1", FormatGameKey("room1"))
	assert.Equal(t, "timer:room1", FormatTimerKey("room1"))
	assert.Equal(t, "word:cache:사과", FormatWordCacheKey("사과"))
	assert.Equal(t, "word:hints:과", FormatHintsKey("과"))
	assert.Equal(t, "word:count:과", FormatCountKey("과"))
	assert.Equal(t, "player_games:42", FormatPlayerGamesKey(42))
}
