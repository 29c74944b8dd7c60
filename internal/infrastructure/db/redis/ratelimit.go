package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter backed by Redis.
// Key format: ratelimit:<operation>:<subject>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit requests per subject and operation per window.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow counts one request and reports whether it fits in the current window.
func (l *RateLimiter) Allow(ctx context.Context, operation, subject string) (bool, error) {
	key := l.key(operation, subject, l.now())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

func (l *RateLimiter) key(operation, subject string, now time.Time) string {
	windowStart := now.Truncate(l.window).Unix()
	return fmt.Sprintf("ratelimit:%s:%s:%d", operation, subject, windowStart)
}
