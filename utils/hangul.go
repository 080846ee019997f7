package utils

import "unicode/utf8"

/**
 * Helpers for working with Hangul syllable blocks. The chain rule and the
 * charset validation both operate on complete syllables (U+AC00..U+D7A3),
 * never on individual jamo.
 */

const (
	hangulSyllableStart = 0xAC00
	hangulSyllableEnd   = 0xD7A3
)

// IsHangulSyllable reports whether r is a complete Hangul syllable block
func IsHangulSyllable(r rune) bool {
	return r >= hangulSyllableStart && r <= hangulSyllableEnd
}

// IsAllHangul reports whether every rune in word is a Hangul syllable.
// An empty string is not considered Hangul.
func IsAllHangul(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !IsHangulSyllable(r) {
			return false
		}
	}
	return true
}

// FirstSyllable returns the first syllable of word as a string ("" if empty)
func FirstSyllable(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// LastSyllable returns the last syllable of word as a string ("" if empty)
func LastSyllable(word string) string {
	r, size := utf8.DecodeLastRuneInString(word)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// SyllableCount counts the syllables (runes) in word. Word length rules and
// the length bonus are expressed in syllables, not bytes.
func SyllableCount(word string) int {
	return utf8.RuneCountInString(word)
}
