package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counters live for two windows so a late INCR never resurrects a stale key.
var redisIncrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter shares fixed-window counters between server instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a RedisLimiter.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: strings.TrimSpace(prefix)}
}

// Allow counts one request for key in the window containing now.
func (l *RedisLimiter) Allow(ctx context.Context, key string, quota Quota, now time.Time) (Result, error) {
	if !quota.Enabled() || key == "" || l == nil || l.client == nil {
		return Result{Allowed: true}, nil
	}
	window, reset := windowBounds(now, quota.Window)
	ttl := (2 * quota.Window).Milliseconds()
	if ttl < 1 {
		ttl = 1
	}
	count, errEval := redisIncrScript.Run(ctx, l.client, []string{l.counterKey(key, quota.Window, window)}, ttl).Int64()
	if errEval != nil {
		return Result{}, fmt.Errorf("rate limit redis: %w", errEval)
	}
	return allowedResult(quota.Limit, int(count), reset, now), nil
}

func (l *RedisLimiter) counterKey(key string, window time.Duration, index int64) string {
	parts := []string{key, strconv.FormatInt(window.Milliseconds(), 10), strconv.FormatInt(index, 10)}
	if l.prefix != "" {
		parts = append([]string{l.prefix}, parts...)
	}
	return strings.Join(parts, ":")
}
