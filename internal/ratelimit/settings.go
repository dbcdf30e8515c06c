package ratelimit

import (
	"strings"
	"time"

	"github.com/router-for-me/WiFiVoucher/internal/config"
)

// SettingsConfig captures the rate limit settings snapshot.
type SettingsConfig struct {
	Limit         int
	Window        time.Duration
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// SettingsFromConfig converts the loaded server config into a settings snapshot.
func SettingsFromConfig(rl config.RateLimitConfig) SettingsConfig {
	cfg := SettingsConfig{
		Limit:         rl.Limit,
		Window:        rl.Window,
		RedisEnabled:  rl.Redis.Enabled,
		RedisAddr:     strings.TrimSpace(rl.Redis.Addr),
		RedisPassword: strings.TrimSpace(rl.Redis.Password),
		RedisDB:       rl.Redis.DB,
		RedisPrefix:   strings.TrimSpace(rl.Redis.Prefix),
	}
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = config.DefaultRedisPrefix
	}
	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	if cfg.Window <= 0 {
		cfg.Window = config.DefaultRateLimitWindow
	}
	return cfg
}

// Quota returns the per-subject quota of the snapshot.
func (c SettingsConfig) Quota() Quota {
	return Quota{Limit: c.Limit, Window: c.Window}
}

// StaticSettings returns a provider that always yields cfg.
func StaticSettings(cfg SettingsConfig) SettingsProvider {
	return func() SettingsConfig { return cfg }
}

func disabledSettings() SettingsConfig {
	return SettingsConfig{}
}
