package redis

// CachedWordEntry is the value stored under word:cache:{word}. Misses are
// cached too (Found=false) with a short TTL so a flood of submissions of the
// same bogus word never reaches the dictionary store.
type CachedWordEntry struct {
	Word           string `json:"word"`
	Found          bool   `json:"found"`
	Definition     string `json:"definition,omitempty"`
	Difficulty     int    `json:"difficulty,omitempty"`
	FrequencyScore int    `json:"frequency_score,omitempty"`
	FirstChar      string `json:"first_char,omitempty"`
	LastChar       string `json:"last_char,omitempty"`
	Length         int    `json:"length,omitempty"`
}
