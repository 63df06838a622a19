package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Cmdable the limiter needs.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Redis is a fixed-window counter shared across processes, keyed by
// identifier with the window as TTL.
type Redis struct {
	client RedisClient
	limit  int
	window time.Duration
}

// NewRedis creates a Redis-backed limiter allowing limit attempts per window.
func NewRedis(client RedisClient, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow increments the counter for key and reports whether it is still
// within the limit. The first increment of a window sets the TTL, so
// the counter expires with the window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	n, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing attempt counter: %w", err)
	}

	if n == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return false, fmt.Errorf("setting attempt counter expiry: %w", err)
		}
	}

	return n <= int64(r.limit), nil
}
