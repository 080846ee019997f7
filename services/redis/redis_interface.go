package redis

import (
	game_constants "Kkutmal/constants/game"
	redis_models "Kkutmal/models/redis"
	redis_utils "Kkutmal/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles all Redis operations for the game engine. Game state
// is stored as whole-value JSON under game:{room_id}; writes go through
// optimistic WATCH/MULTI/EXEC transactions so concurrent engine operations
// on the same room are linearised by Redis.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var opt *redis.Options
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		parsed, err := redis.ParseURL(Addr)
		if err != nil {
			log.Printf("[REDIS-ERROR] Could not parse Redis URL %q (%v), treating it as a plain address", Addr, err)
			parsed = &redis.Options{Addr: Addr, DB: DB}
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: Addr, DB: DB}
	}
	opt.DialTimeout = game_constants.RedisOpTimeout
	opt.ReadTimeout = game_constants.RedisOpTimeout
	opt.WriteTimeout = game_constants.RedisOpTimeout
	client := redis.NewClient(opt)
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

func (rc *RedisClient) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(rc.ctx, game_constants.RedisOpTimeout)
}

// ---------------------------------------------------------------
// Game state: game:{room_id}
// ---------------------------------------------------------------

// SaveGameState stores a room's game state in Redis
// Key format: "game:{room_id}", TTL: 24 hours (abandonment cleanup)
func (rc *RedisClient) SaveGameState(state *redis_models.GameState) error {
	ctx, cancel := rc.opCtx()
	defer cancel()

	key := redis_utils.FormatGameKey(state.RoomID)
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling game state: %v", err)
	}
	return rc.client.Set(ctx, key, data, game_constants.GameStateTTL).Err()
}

// GetGameState retrieves a room's game state from Redis
// Key format: "game:{room_id}"
func (rc *RedisClient) GetGameState(roomID string) (*redis_models.GameState, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()

	key := redis_utils.FormatGameKey(roomID)
	data, err := rc.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting game state: %v", err)
	}

	var state redis_models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("error unmarshaling game state: %v", err)
	}
	return &state, nil
}

// DeleteGameState removes a room's game state from Redis
func (rc *RedisClient) DeleteGameState(roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()

	if err := rc.client.Del(ctx, redis_utils.FormatGameKey(roomID)).Err(); err != nil {
		return fmt.Errorf("error deleting game state: %v", err)
	}
	return nil
}

// TransactGameState runs fn inside an optimistic transaction on
// game:{room_id}. fn receives the current snapshot and returns the state to
// write back, or nil for a read-only pass. On a write collision the whole
// pipeline is retried up to 3 times with 10/20/30 ms backoff before
// ErrConcurrencyAborted is returned.
func (rc *RedisClient) TransactGameState(roomID string,
	fn func(state *redis_models.GameState) (*redis_models.GameState, error)) error {

	key := redis_utils.FormatGameKey(roomID)

	txf := func(ctx context.Context, tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("error reading game state under watch: %v", err)
		}

		var state redis_models.GameState
		if err := json.Unmarshal(data, &state); err != nil {
			return fmt.Errorf("error unmarshaling game state: %v", err)
		}

		updated, err := fn(&state)
		if err != nil {
			return err
		}
		if updated == nil {
			// Read-only pass, nothing to commit
			return nil
		}

		newData, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("error marshaling game state: %v", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newData, game_constants.GameStateTTL)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= game_constants.TxMaxRetries; attempt++ {
		ctx, cancel := rc.opCtx()
		err := rc.client.Watch(ctx, func(tx *redis.Tx) error { return txf(ctx, tx) }, key)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			backoff := time.Duration(attempt*game_constants.TxBackoffStepMs) * time.Millisecond
			log.Printf("[TX-RETRY] Write collision on %s, attempt %d/%d, backing off %v",
				key, attempt, game_constants.TxMaxRetries, backoff)
			time.Sleep(backoff)
			continue
		}
		return err
	}

	log.Printf("[TX-ABORT] Transaction on %s exhausted retry budget", key)
	return ErrConcurrencyAborted
}

// ---------------------------------------------------------------
// Turn timer snapshot: timer:{room_id}
// ---------------------------------------------------------------

// SaveTurnTimer stores the active turn timer snapshot.
// TTL: remaining + 10s, with a 60s floor so late observers still see it.
func (rc *RedisClient) SaveTurnTimer(info *redis_models.TurnTimerInfo) error {
	ctx, cancel := rc.opCtx()
	defer cancel()

	key := redis_utils.FormatTimerKey(info.RoomID)
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("error marshaling timer info: %v", err)
	}

	ttl := time.Duration(info.RemainingMs)*time.Millisecond + 10*time.Second
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return rc.client.Set(ctx, key, data, ttl).Err()
}

// GetTurnTimer retrieves the active turn timer snapshot, ErrNotFound if none
func (rc *RedisClient) GetTurnTimer(roomID string) (*redis_models.TurnTimerInfo, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()

	data, err := rc.client.Get(ctx, redis_utils.FormatTimerKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting timer info: %v", err)
	}

	var info redis_models.TurnTimerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("error unmarshaling timer info: %v", err)
	}
	return &info, nil
}

// DeleteTurnTimer removes the timer snapshot for a room
func (rc *RedisClient) DeleteTurnTimer(roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.Del(ctx, redis_utils.FormatTimerKey(roomID)).Err()
}

// ---------------------------------------------------------------
// Dictionary lookup cache: word:cache:{word}
// ---------------------------------------------------------------

// GetCachedWord returns the cached dictionary lookup for word, ErrNotFound on
// cache miss
func (rc *RedisClient) GetCachedWord(word string) (*redis_models.CachedWordEntry, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()

	data, err := rc.client.Get(ctx, redis_utils.FormatWordCacheKey(word)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting cached word: %v", err)
	}

	var entry redis_models.CachedWordEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("error unmarshaling cached word: %v", err)
	}
	return &entry, nil
}

// SetCachedWord caches a dictionary lookup result. Hits live 1h, misses 5m.
func (rc *RedisClient) SetCachedWord(entry *redis_models.CachedWordEntry) error {
	ctx, cancel := rc.opCtx()
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("error marshaling cached word: %v", err)
	}

	ttl := game_constants.WordCacheHitTTL
	if !entry.Found {
		ttl = game_constants.WordCacheMissTTL
	}
	return rc.client.Set(ctx, redis_utils.FormatWordCacheKey(entry.Word), data, ttl).Err()
}

// GetCachedHints returns cached hint words for lastChar, ErrNotFound on miss
func (rc *RedisClient) GetCachedHints(lastChar string) ([]string, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()

	data, err := rc.client.Get(ctx, redis_utils.FormatHintsKey(lastChar)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting cached hints: %v", err)
	}

	var hints []string
	if err := json.Unmarshal(data, &hints); err != nil {
		return nil, fmt.Errorf("error unmarshaling cached hints: %v", err)
	}
	return hints, nil
}

// SetCachedHints caches hint words for lastChar for 10 minutes
func (rc *RedisClient) SetCachedHints(lastChar string, hints []string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()

	data, err := json.Marshal(hints)
	if err != nil {
		return fmt.Errorf("error marshaling hints: %v", err)
	}
	return rc.client.Set(ctx, redis_utils.FormatHintsKey(lastChar), data, game_constants.HintsCacheTTL).Err()
}

// GetCachedCount returns the cached possible-word count for lastChar
func (rc *RedisClient) GetCachedCount(lastChar string) (int64, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()

	val, err := rc.client.Get(ctx, redis_utils.FormatCountKey(lastChar)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("error getting cached count: %v", err)
	}
	return strconv.ParseInt(val, 10, 64)
}

// SetCachedCount caches the possible-word count for lastChar for 1 hour
func (rc *RedisClient) SetCachedCount(lastChar string, count int64) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.Set(ctx, redis_utils.FormatCountKey(lastChar),
		strconv.FormatInt(count, 10), game_constants.CountCacheTTL).Err()
}

// ---------------------------------------------------------------
// Room / player index sets
// ---------------------------------------------------------------

// AddActiveGame registers roomID in the active_games set
func (rc *RedisClient) AddActiveGame(roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SAdd(ctx, redis_utils.ActiveGamesKey, roomID).Err()
}

// RemoveActiveGame drops roomID from the active_games set
func (rc *RedisClient) RemoveActiveGame(roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SRem(ctx, redis_utils.ActiveGamesKey, roomID).Err()
}

// GetActiveGames lists all currently active room ids
func (rc *RedisClient) GetActiveGames() ([]string, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SMembers(ctx, redis_utils.ActiveGamesKey).Result()
}

// AddPlayerGame records that userID participates in roomID
func (rc *RedisClient) AddPlayerGame(userID int, roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SAdd(ctx, redis_utils.FormatPlayerGamesKey(userID), roomID).Err()
}

// RemovePlayerGame drops roomID from the player's game set
func (rc *RedisClient) RemovePlayerGame(userID int, roomID string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SRem(ctx, redis_utils.FormatPlayerGamesKey(userID), roomID).Err()
}

// GetPlayerGames lists the rooms userID currently participates in
func (rc *RedisClient) GetPlayerGames(userID int) ([]string, error) {
	ctx, cancel := rc.opCtx()
	defer cancel()
	return rc.client.SMembers(ctx, redis_utils.FormatPlayerGamesKey(userID)).Result()
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	ctx, cancel := rc.opCtx()
	defer cancel()
	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
