package game

import (
	redis_models "Kkutmal/models/redis"
	"Kkutmal/utils"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDict struct {
	entries map[string]*redis_models.CachedWordEntry
	err     error
}

func (f *fakeDict) Lookup(word string) (*redis_models.CachedWordEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if entry, ok := f.entries[word]; ok {
		return entry, nil
	}
	return &redis_models.CachedWordEntry{Word: word, Found: false}, nil
}

func (f *fakeDict) Hints(lastChar string, n int) ([]string, error) { return nil, nil }

func (f *fakeDict) PossibleCount(lastChar string) (int64, error) { return 0, nil }

func dictEntry(word string, difficulty, frequency int) *redis_models.CachedWordEntry {
	return &redis_models.CachedWordEntry{
		Word:           word,
		Found:          true,
		Difficulty:     difficulty,
		FrequencyScore: frequency,
		FirstChar:      utils.FirstSyllable(word),
		LastChar:       utils.LastSyllable(word),
		Length:         utils.SyllableCount(word),
	}
}

func testDict() *fakeDict {
	return &fakeDict{entries: map[string]*redis_models.CachedWordEntry{
		"사과":  dictEntry("사과", 1, 95),
		"과일":  dictEntry("과일", 1, 90),
		"일요일": dictEntry("일요일", 2, 60),
		"일기":  dictEntry("일기", 1, 80),
		"기차역": dictEntry("기차역", 2, 40),
	}}
}

func classicSettings() redis_models.GameSettings {
	return redis_models.GameSettings{
		MinWordLength: 2,
		MaxWordLength: 10,
	}
}

func TestValidateWordPipeline(t *testing.T) {
	dict := testDict()
	settings := classicSettings()
	chain := redis_models.NewWordChainState()

	tests := []struct {
		name string
		word string
		want ValidationResult
	}{
		{"valid first word", "사과", ResultValid},
		{"too short", "일", ResultTooShort},
		{"not hangul", "apple", ResultInvalidCharacter},
		{"mixed charset", "사과1", ResultInvalidCharacter},
		{"unknown word", "까꿍", ResultInvalidWord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := ValidateWord(tt.word, &chain, settings, dict)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestValidateWordTooLong(t *testing.T) {
	settings := classicSettings()
	settings.MaxWordLength = 2
	chain := redis_models.NewWordChainState()

	result, _, err := ValidateWord("일요일", &chain, settings, testDict())
	require.NoError(t, err)
	assert.Equal(t, ResultTooLong, result)
}

func TestValidateWordChainRule(t *testing.T) {
	dict := testDict()
	settings := classicSettings()
	chain := redis_models.NewWordChainState()
	chain.Append("사과", 1, 10, time.Now())

	// Must start with 과
	result, entry, err := ValidateWord("과일", &chain, settings, dict)
	require.NoError(t, err)
	assert.Equal(t, ResultValid, result)
	require.NotNil(t, entry)
	assert.Equal(t, "일", entry.LastChar)

	result, _, err = ValidateWord("기차역", &chain, settings, dict)
	require.NoError(t, err)
	assert.Equal(t, ResultInvalidChain, result)
}

func TestValidateWordDedup(t *testing.T) {
	dict := testDict()
	settings := classicSettings()
	chain := redis_models.NewWordChainState()
	chain.Append("과일", 1, 10, time.Now())
	chain.Append("일기", 2, 10, time.Now())

	// 기차역 chains from 기 and is new
	result, _, err := ValidateWord("기차역", &chain, settings, dict)
	require.NoError(t, err)
	assert.Equal(t, ResultValid, result)

	// A word already played this round is rejected before the dictionary
	chain2 := redis_models.NewWordChainState()
	chain2.Append("사과", 1, 10, time.Now())
	chain2.Append("과일", 2, 10, time.Now())
	chain2.CurrentLastChar = "과"
	result, _, err = ValidateWord("과일", &chain2, settings, dict)
	require.NoError(t, err)
	assert.Equal(t, ResultAlreadyUsed, result)
}

func TestValidateWordForbidden(t *testing.T) {
	settings := classicSettings()
	settings.ForbiddenWords = []string{"사과"}
	chain := redis_models.NewWordChainState()

	result, _, err := ValidateWord("사과", &chain, settings, testDict())
	require.NoError(t, err)
	assert.Equal(t, ResultForbidden, result)
}

func TestValidateWordLongWordsMode(t *testing.T) {
	settings := classicSettings()
	settings.LongWordsOnly = true
	chain := redis_models.NewWordChainState()

	result, _, err := ValidateWord("사과", &chain, settings, testDict())
	require.NoError(t, err)
	assert.Equal(t, ResultModeViolation, result)
}

func TestValidateWordDictionaryError(t *testing.T) {
	dict := &fakeDict{err: errors.New("connection lost")}
	chain := redis_models.NewWordChainState()

	result, entry, err := ValidateWord("사과", &chain, classicSettings(), dict)
	require.Error(t, err)
	assert.Empty(t, result)
	assert.Nil(t, entry)
}
