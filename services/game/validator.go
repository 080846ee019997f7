package game

import (
	redis_models "Kkutmal/models/redis"
	"Kkutmal/utils"
	"fmt"
	"strings"
)

// ValidationResult classifies the outcome of a word submission check.
// The first failing check wins; "valid" means every check passed.
type ValidationResult string

const (
	ResultValid            ValidationResult = "valid"
	ResultTooShort         ValidationResult = "too_short"
	ResultTooLong          ValidationResult = "too_long"
	ResultInvalidCharacter ValidationResult = "invalid_character"
	ResultForbidden        ValidationResult = "forbidden"
	ResultInvalidChain     ValidationResult = "invalid_chain"
	ResultAlreadyUsed      ValidationResult = "already_used"
	ResultModeViolation    ValidationResult = "mode_violation"
	ResultInvalidWord      ValidationResult = "invalid_word"
)

const longWordsMinLength = 5

// ValidateWord runs the submission pipeline against a game snapshot:
// length -> charset -> forbidden list -> chain rule -> dedup -> mode rules ->
// dictionary. On success the dictionary entry is returned alongside.
func ValidateWord(word string, chain *redis_models.WordChainState,
	settings redis_models.GameSettings, dict Dictionary) (ValidationResult, *redis_models.CachedWordEntry, error) {

	length := utils.SyllableCount(word)

	// 1. Basic syntactic checks
	if length < settings.MinWordLength {
		return ResultTooShort, nil, nil
	}
	if length > settings.MaxWordLength {
		return ResultTooLong, nil, nil
	}
	if !utils.IsAllHangul(word) {
		return ResultInvalidCharacter, nil, nil
	}

	// 2. Forbidden substrings
	for _, forbidden := range settings.ForbiddenWords {
		if forbidden != "" && strings.Contains(word, forbidden) {
			return ResultForbidden, nil, nil
		}
	}

	// 3. Chain rule; the first word of a round is unconstrained
	if chain.CurrentLastChar != "" && utils.FirstSyllable(word) != chain.CurrentLastChar {
		return ResultInvalidChain, nil, nil
	}

	// 4. Dedup within the round
	if chain.IsUsed(word) {
		return ResultAlreadyUsed, nil, nil
	}

	// 5. Mode rules
	if settings.LongWordsOnly && length < longWordsMinLength {
		return ResultModeViolation, nil, nil
	}

	// 6. Dictionary membership
	entry, err := dict.Lookup(word)
	if err != nil {
		return "", nil, fmt.Errorf("error validating word against dictionary: %v", err)
	}
	if !entry.Found {
		return ResultInvalidWord, nil, nil
	}

	return ResultValid, entry, nil
}
