package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptPrefix = "login_attempts:"

// AttemptCounter counts events per key inside a fixed window.
type AttemptCounter struct {
	rdb redis.UniversalClient
}

// NewAttemptCounter constructs an AttemptCounter.
func NewAttemptCounter(rdb redis.UniversalClient) *AttemptCounter {
	return &AttemptCounter{rdb: rdb}
}

// Hit records one event for key and returns the count so far in the window
// together with the time left until the window resets.
func (c *AttemptCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	fullKey := attemptPrefix + key
	count, err := c.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, window, err
		}
		return count, window, nil
	}
	ttl, err := c.rdb.TTL(ctx, fullKey).Result()
	if err != nil {
		return count, 0, err
	}
	if ttl < 0 {
		// key lost its expiry; restart the window
		ttl = window
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return count, ttl, err
		}
	}
	return count, ttl, nil
}
