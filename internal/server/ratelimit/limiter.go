// Package ratelimit throttles login attempts with a fixed-window counter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelkers/carwash/internal/common"
)

// Limiter gates an attempt identified by key. Returns common.ErrRateLimited
// when the key has exhausted its window.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// RedisLimiter counts attempts per key in redis. The window starts on the
// first attempt (EXPIRE is set when the counter is created) and the counter
// is discarded by redis when the window ends.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter constructs a limiter allowing max attempts per window.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.client.Incr(ctx, "login:"+key).Result()
	if err != nil {
		return fmt.Errorf("limiter redis error: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, "login:"+key, l.window).Err(); err != nil {
			return fmt.Errorf("limiter redis error: %w", err)
		}
	}

	if count > int64(l.max) {
		return common.ErrRateLimited
	}

	return nil
}

// Noop allows everything. Used when no redis address is configured.
type Noop struct{}

func (Noop) Allow(ctx context.Context, key string) error { return nil }
