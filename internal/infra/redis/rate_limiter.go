package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter used for coarse per-key limits,
// e.g. deduplicating referral clicks from one source.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

// ClickDedupKey limits how often one source counts a click for a code.
func ClickDedupKey(code, source string) string {
	return fmt.Sprintf("click_dedup:%s:%s", code, source)
}
