package ratelimit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/router-for-me/WiFiVoucher/internal/config"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Unix(1700000000, 100)
	ctx := context.Background()
	quota := Quota{Limit: 2, Window: time.Second}

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "k", quota, now)
		if err != nil || !res.Allowed {
			t.Fatalf("request %d: expected allowed, got %+v err=%v", i, res, err)
		}
	}
	res, _ := limiter.Allow(ctx, "k", quota, now)
	if res.Allowed {
		t.Fatalf("expected third request in the same window to be rejected")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Second {
		t.Fatalf("expected retry-after within the window, got %s", res.RetryAfter)
	}
	if !res.Reset.Equal(time.Unix(1700000001, 0).UTC()) {
		t.Fatalf("expected reset at next second, got %s", res.Reset)
	}
	res, _ = limiter.Allow(ctx, "k", quota, now.Add(time.Second))
	if !res.Allowed || res.Remaining != 1 {
		t.Fatalf("expected new window, got %+v", res)
	}
	res, _ = limiter.Allow(ctx, "other", quota, now)
	if !res.Allowed {
		t.Fatalf("expected independent keys")
	}
}

func TestMemoryLimiter_SweepsExpiredCounters(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()
	quota := Quota{Limit: 5, Window: time.Second}
	start := time.Unix(1700000000, 0)

	for _, key := range []string{"a", "b", "c"} {
		if _, err := limiter.Allow(ctx, key, quota, start); err != nil {
			t.Fatalf("allow %s: %v", key, err)
		}
	}
	if limiter.Len() != 3 {
		t.Fatalf("expected 3 counters, got %d", limiter.Len())
	}
	if _, err := limiter.Allow(ctx, "d", quota, start.Add(2*memorySweepInterval)); err != nil {
		t.Fatalf("allow d: %v", err)
	}
	if limiter.Len() != 1 {
		t.Fatalf("expected expired counters to be swept, got %d", limiter.Len())
	}
}

func TestMemoryLimiter_MinuteWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	quota := Quota{Limit: 1, Window: time.Minute}
	now := time.Unix(1700000010, 0)

	if res, _ := limiter.Allow(context.Background(), "k", quota, now); !res.Allowed {
		t.Fatalf("expected first request allowed")
	}
	res, _ := limiter.Allow(context.Background(), "k", quota, now.Add(20*time.Second))
	if res.Allowed {
		t.Fatalf("expected second request in the same minute to be rejected")
	}
	if !res.Reset.Equal(time.Unix(1700000040, 0).UTC()) {
		t.Fatalf("expected reset at minute boundary, got %s", res.Reset)
	}
	if res.RetryAfter != 10*time.Second {
		t.Fatalf("expected 10s until the next window, got %s", res.RetryAfter)
	}
}

func TestResolveLimit(t *testing.T) {
	cfg := SettingsConfig{Limit: 3, Window: time.Minute}
	if d := ResolveLimit(cfg, "10.0.0.1", "user-1"); d.Scope != ScopeUser || d.Subject != "user-1" {
		t.Fatalf("expected user scope, got %+v", d)
	}
	if d := ResolveLimit(cfg, "10.0.0.1", ""); d.Scope != ScopeClientIP || d.Subject != "10.0.0.1" {
		t.Fatalf("expected client ip scope, got %+v", d)
	}
	if d := ResolveLimit(SettingsConfig{}, "10.0.0.1", "user-1"); d.Quota.Enabled() || d.Scope != ScopeNone {
		t.Fatalf("expected disabled limit, got %+v", d)
	}
}

func TestKeyForDecision(t *testing.T) {
	if got := KeyForDecision("auth", Decision{Quota: Quota{Limit: 1, Window: time.Second}, Scope: ScopeClientIP, Subject: "10.0.0.1"}); got != "ip:10.0.0.1:r:auth" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KeyForDecision("purchase", Decision{Quota: Quota{Limit: 1, Window: time.Second}, Scope: ScopeUser, Subject: "u1"}); got != "u:u1:r:purchase" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := KeyForDecision("auth", Decision{Scope: ScopeUser, Subject: "u1"}); got != "" {
		t.Fatalf("expected empty key without limit, got %q", got)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := SettingsFromConfig(config.RateLimitConfig{Limit: -1, Redis: config.RedisConfig{Addr: " redis:6379 ", DB: -2}})
	if cfg.Limit != 0 || cfg.RedisDB != 0 {
		t.Fatalf("expected clamped values, got %+v", cfg)
	}
	if cfg.Window != config.DefaultRateLimitWindow {
		t.Fatalf("expected default window, got %s", cfg.Window)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPrefix != config.DefaultRedisPrefix {
		t.Fatalf("unexpected redis settings %+v", cfg)
	}
}

func TestManager_FallsBackToMemoryWhenRedisDown(t *testing.T) {
	now := time.Unix(1700000000, 0)
	dialed := 0
	manager := NewManager(StaticSettings(SettingsConfig{
		Limit:        1,
		Window:       time.Second,
		RedisEnabled: true,
		RedisAddr:    "127.0.0.1:1",
	}), func() time.Time { return now }, func(opts *redis.Options) *redis.Client {
		dialed++
		opts.Dialer = func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("dial refused")
		}
		opts.MaxRetries = -1
		return redis.NewClient(opts)
	})

	res, err := manager.Allow(context.Background(), "k", Quota{Limit: 1, Window: time.Second})
	if err != nil || !res.Allowed {
		t.Fatalf("expected memory fallback to allow, got %+v err=%v", res, err)
	}
	res, _ = manager.Allow(context.Background(), "k", Quota{Limit: 1, Window: time.Second})
	if res.Allowed {
		t.Fatalf("expected memory fallback to enforce the limit")
	}
	if dialed != 1 {
		t.Fatalf("expected breaker to stop redis reconnects, dialed %d times", dialed)
	}
}

func TestMiddleware_RejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Unix(1700000015, 0)
	manager := NewManager(StaticSettings(SettingsConfig{Limit: 1, Window: time.Minute}), func() time.Time { return now }, nil)
	r := gin.New()
	r.POST("/login", Middleware(manager, "auth", nil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", first.Code)
	}
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if got := second.Header().Get("Retry-After"); got != "25" {
		t.Fatalf("expected Retry-After=25, got %q", got)
	}
	if got := second.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Fatalf("expected X-RateLimit-Limit=1, got %q", got)
	}
}
