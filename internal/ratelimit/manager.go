package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	redisBreakerDuration = 30 * time.Second
	redisPingTimeout     = 2 * time.Second
)

// SettingsProvider supplies the latest settings snapshot.
type SettingsProvider func() SettingsConfig

// RedisClientFactory constructs a Redis client for the given options.
type RedisClientFactory func(options *redis.Options) *redis.Client

type redisTarget struct {
	addr     string
	password string
	prefix   string
	db       int
}

func redisTargetFrom(cfg SettingsConfig) redisTarget {
	target := redisTarget{
		addr:     strings.TrimSpace(cfg.RedisAddr),
		password: strings.TrimSpace(cfg.RedisPassword),
		prefix:   strings.TrimSpace(cfg.RedisPrefix),
		db:       cfg.RedisDB,
	}
	if target.db < 0 {
		target.db = 0
	}
	return target
}

// Manager counts requests in Redis when configured and reachable, and in
// process memory otherwise. A Redis failure opens a breaker for
// redisBreakerDuration during which only the memory limiter is used.
type Manager struct {
	provider       SettingsProvider
	nowFn          func() time.Time
	memory         *MemoryLimiter
	newRedisClient RedisClientFactory

	mu           sync.Mutex
	redis        *RedisLimiter
	redisTarget  redisTarget
	breakerUntil time.Time
}

// NewManager constructs a Manager; nil arguments select the defaults
// (rate limiting disabled, wall clock, go-redis client).
func NewManager(provider SettingsProvider, nowFn func() time.Time, newRedisClient RedisClientFactory) *Manager {
	if provider == nil {
		provider = disabledSettings
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	if newRedisClient == nil {
		newRedisClient = redis.NewClient
	}
	return &Manager{
		provider:       provider,
		nowFn:          nowFn,
		memory:         NewMemoryLimiter(),
		newRedisClient: newRedisClient,
	}
}

// Settings returns the current settings snapshot.
func (m *Manager) Settings() SettingsConfig {
	if m == nil {
		return SettingsConfig{}
	}
	return m.provider()
}

// Allow counts one request for key against quota.
func (m *Manager) Allow(ctx context.Context, key string, quota Quota) (Result, error) {
	if m == nil || !quota.Enabled() || key == "" {
		return Result{Allowed: true}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	now := m.nowFn()
	if cfg := m.provider(); cfg.RedisEnabled {
		if result, ok := m.allowRedis(ctx, redisTargetFrom(cfg), key, quota, now); ok {
			return result, nil
		}
	}
	return m.memory.Allow(ctx, key, quota, now)
}

// Close releases the Redis client, if any.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		return nil
	}
	errClose := m.redis.client.Close()
	m.redis = nil
	return errClose
}

func (m *Manager) allowRedis(ctx context.Context, target redisTarget, key string, quota Quota, now time.Time) (Result, bool) {
	if m.breakerOpen(now) {
		return Result{}, false
	}
	limiter, errConnect := m.connect(ctx, target)
	if errConnect != nil {
		m.openBreaker(target, errConnect, now)
		return Result{}, false
	}
	result, errAllow := limiter.Allow(ctx, key, quota, now)
	if errAllow != nil {
		m.openBreaker(target, errAllow, now)
		return Result{}, false
	}
	return result, true
}

func (m *Manager) breakerOpen(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.breakerUntil.IsZero() {
		return false
	}
	if now.Before(m.breakerUntil) {
		return true
	}
	m.breakerUntil = time.Time{}
	return false
}

func (m *Manager) openBreaker(target redisTarget, err error, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.breakerUntil.IsZero() && now.Before(m.breakerUntil) {
		return
	}
	m.breakerUntil = now.Add(redisBreakerDuration)
	log.WithError(err).WithFields(log.Fields{
		"addr":  target.addr,
		"retry": redisBreakerDuration.String(),
	}).Warn("rate limit: redis unavailable, counting in memory")
}

// connect returns a limiter for target, replacing the client when the target changed.
func (m *Manager) connect(ctx context.Context, target redisTarget) (*RedisLimiter, error) {
	if target.addr == "" {
		return nil, errors.New("rate limit redis: missing address")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis != nil && m.redisTarget == target {
		return m.redis, nil
	}
	if m.redis != nil {
		_ = m.redis.client.Close()
		m.redis = nil
	}

	client := m.newRedisClient(&redis.Options{
		Addr:     target.addr,
		Password: target.password,
		DB:       target.db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if errPing := client.Ping(pingCtx).Err(); errPing != nil {
		_ = client.Close()
		return nil, errPing
	}
	m.redis = NewRedisLimiter(client, target.prefix)
	m.redisTarget = target
	return m.redis, nil
}
