package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter implements RateLimiter using Redis for distributed
// deployments, so signup throttling holds across server instances.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter creates a new Redis-based rate limiter.
func NewRedisRateLimiter(client *redis.Client, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "auth:ratelimit:"
	}
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisRateLimiter) key(k string) string {
	return r.prefix + k
}

// Allow checks if the request should be allowed using a sliding window log.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	redisKey := r.key(key)
	now := time.Now()
	windowStart := now.Add(-window)

	// Lua script keeps remove+count+add atomic across concurrent callers.
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count >= limit then
			return {0, 0}
		end

		redis.call('ZADD', key, now, now .. ':' .. math.random())
		redis.call('PEXPIRE', key, window_ms)

		local remaining = limit - count - 1
		return {1, remaining}
	`)

	result, err := script.Run(ctx, r.client, []string{redisKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		limit,
		window.Milliseconds(),
	).Result()

	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: allow check failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) != 2 {
		return false, 0, fmt.Errorf("redis rate limit: unexpected result format")
	}

	allowed := arr[0].(int64) == 1
	remaining := int(arr[1].(int64))

	return allowed, remaining, nil
}

// Reset clears the rate limit counter for the given key.
func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	redisKey := r.key(key)
	if err := r.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("redis rate limit: reset failed: %w", err)
	}
	return nil
}
