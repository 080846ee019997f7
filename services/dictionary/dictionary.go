package dictionary

import (
	game_constants "Kkutmal/constants/game"
	"Kkutmal/models/postgres"
	redis_models "Kkutmal/models/redis"
	"Kkutmal/services/redis"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

const (
	localCacheSize = 1000
	localCacheTTL  = 5 * time.Minute
	hintsFetchSize = 20
)

// Service resolves Korean words against the pre-populated dictionary table
// through a two-level cache: a process-local expirable LRU in front of the
// shared Redis word cache in front of PostgreSQL. Negative lookups are
// cached too so repeated bogus submissions never reach the database.
type Service struct {
	db    *gorm.DB
	kv    *redis.RedisClient
	local *expirable.LRU[string, redis_models.CachedWordEntry]
}

func NewService(db *gorm.DB, kv *redis.RedisClient) *Service {
	return &Service{
		db:    db,
		kv:    kv,
		local: expirable.NewLRU[string, redis_models.CachedWordEntry](localCacheSize, nil, localCacheTTL),
	}
}

// Lookup resolves word to its dictionary entry. The returned entry always
// carries Found; callers must check it before trusting the other fields.
func (s *Service) Lookup(word string) (*redis_models.CachedWordEntry, error) {
	// Level 1: process-local LRU
	if entry, ok := s.local.Get(word); ok {
		return &entry, nil
	}

	// Level 2: shared Redis cache
	entry, err := s.kv.GetCachedWord(word)
	if err == nil {
		s.local.Add(word, *entry)
		return entry, nil
	}
	if !errors.Is(err, redis.ErrNotFound) {
		log.Printf("[DICT-WARN] Redis word cache unavailable for %q: %v", word, err)
	}

	// Level 3: dictionary store
	var dw postgres.DictionaryWord
	result := s.db.Where("word = ?", word).First(&dw)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			miss := redis_models.CachedWordEntry{Word: word, Found: false}
			s.cache(miss)
			return &miss, nil
		}
		return nil, fmt.Errorf("error looking up word in dictionary: %v", result.Error)
	}

	hit := redis_models.CachedWordEntry{
		Word:           dw.Word,
		Found:          true,
		Definition:     dw.Definition,
		Difficulty:     dw.Difficulty,
		FrequencyScore: dw.FrequencyScore,
		FirstChar:      dw.FirstChar,
		LastChar:       dw.LastChar,
		Length:         dw.Length,
	}
	s.cache(hit)
	return &hit, nil
}

func (s *Service) cache(entry redis_models.CachedWordEntry) {
	s.local.Add(entry.Word, entry)
	if err := s.kv.SetCachedWord(&entry); err != nil {
		log.Printf("[DICT-WARN] Failed to cache word %q in Redis: %v", entry.Word, err)
	}
}

// Hints returns up to n dictionary words starting with lastChar, most
// frequent first. The fetched list is cached in Redis for 10 minutes.
func (s *Service) Hints(lastChar string, n int) ([]string, error) {
	if n <= 0 || lastChar == "" {
		return nil, nil
	}
	if n > hintsFetchSize {
		n = hintsFetchSize
	}

	if hints, err := s.kv.GetCachedHints(lastChar); err == nil {
		if len(hints) > n {
			hints = hints[:n]
		}
		return hints, nil
	}

	var words []string
	result := s.db.Model(&postgres.DictionaryWord{}).
		Select("word").
		Where("first_char = ?", lastChar).
		Order("frequency_score DESC").
		Limit(hintsFetchSize).
		Find(&words)
	if result.Error != nil {
		return nil, fmt.Errorf("error fetching hints: %v", result.Error)
	}

	if err := s.kv.SetCachedHints(lastChar, words); err != nil {
		log.Printf("[DICT-WARN] Failed to cache hints for %q: %v", lastChar, err)
	}

	if len(words) > n {
		words = words[:n]
	}
	return words, nil
}

// PossibleCount returns how many dictionary words start with lastChar,
// cached in Redis for 1 hour.
func (s *Service) PossibleCount(lastChar string) (int64, error) {
	if count, err := s.kv.GetCachedCount(lastChar); err == nil {
		return count, nil
	}

	var count int64
	result := s.db.Model(&postgres.DictionaryWord{}).
		Where("first_char = ?", lastChar).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("error counting possible words: %v", result.Error)
	}

	if err := s.kv.SetCachedCount(lastChar, count); err != nil {
		log.Printf("[DICT-WARN] Failed to cache count for %q: %v", lastChar, err)
	}
	return count, nil
}

// Preload warms the Redis word cache with the n most frequent words. Called
// once at startup; failures only cost cache misses later, so they are logged
// and swallowed.
func (s *Service) Preload(n int) error {
	var words []postgres.DictionaryWord
	result := s.db.Order("frequency_score DESC").Limit(n).Find(&words)
	if result.Error != nil {
		return fmt.Errorf("error preloading dictionary: %v", result.Error)
	}

	warmed := 0
	for _, dw := range words {
		entry := &redis_models.CachedWordEntry{
			Word:           dw.Word,
			Found:          true,
			Definition:     dw.Definition,
			Difficulty:     dw.Difficulty,
			FrequencyScore: dw.FrequencyScore,
			FirstChar:      dw.FirstChar,
			LastChar:       dw.LastChar,
			Length:         dw.Length,
		}
		if err := s.kv.SetCachedWord(entry); err != nil {
			log.Printf("[DICT-WARN] Failed to warm cache for %q: %v", dw.Word, err)
			continue
		}
		warmed++
	}
	log.Printf("[DICT] Preloaded %d/%d words into the Redis cache (hit TTL %v)",
		warmed, len(words), game_constants.WordCacheHitTTL)
	return nil
}
