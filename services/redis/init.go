package redis

import (
	"fmt"
	"log"
	"time"
)

// InitRedis initializes the Redis connection. The initial ping is retried
// with capped exponential backoff (1s/2s/4s) before giving up.
func InitRedis(Addr string, DB int) (*RedisClient, error) {
	rc := NewRedisClient(Addr, DB)

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			log.Printf("[REDIS-RETRY] Connection attempt %d failed, retrying in %v", attempt, backoff)
			time.Sleep(backoff)
		}
		err = rc.client.Ping(rc.ctx).Err()
		if err == nil {
			log.Println("Successfully connected to Redis")
			return rc, nil
		}
	}

	return nil, fmt.Errorf("failed to connect to Redis: %v", err)
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}
