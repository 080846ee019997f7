package redis

import (
	"Kkutmal/utils"
	"strings"
	"time"
)

// ChainWord is one accepted word in the round's chain, kept for the
// word timeline persisted at game end.
type ChainWord struct {
	Word        string    `json:"word"`
	UserID      int       `json:"user_id"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// WordChainState holds the per-round chain. It is reset on every round
// transition: a new round always starts with an empty chain and no
// last-character constraint.
type WordChainState struct {
	Words           []ChainWord     `json:"words"`
	UsedWords       map[string]bool `json:"used_words"`
	CurrentLastChar string          `json:"current_last_char"`
}

func NewWordChainState() WordChainState {
	return WordChainState{
		Words:           []ChainWord{},
		UsedWords:       make(map[string]bool),
		CurrentLastChar: "",
	}
}

// Append records an accepted word: it joins the ordered chain, marks the
// lowered form as used and moves the chain constraint to its last syllable.
func (wc *WordChainState) Append(word string, userID int, score int, now time.Time) {
	wc.Words = append(wc.Words, ChainWord{
		Word:        word,
		UserID:      userID,
		Score:       score,
		SubmittedAt: now,
	})
	if wc.UsedWords == nil {
		wc.UsedWords = make(map[string]bool)
	}
	wc.UsedWords[strings.ToLower(word)] = true
	wc.CurrentLastChar = utils.LastSyllable(word)
}

// IsUsed reports whether word was already accepted this round
func (wc *WordChainState) IsUsed(word string) bool {
	return wc.UsedWords[strings.ToLower(word)]
}

// Reset clears the chain for a new round
func (wc *WordChainState) Reset() {
	wc.Words = []ChainWord{}
	wc.UsedWords = make(map[string]bool)
	wc.CurrentLastChar = ""
}
