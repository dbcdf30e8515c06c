package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath         = "CONFIG_PATH"
	EnvDotEnvPath         = "ENV_FILE"
	EnvDBConnection       = "DB_CONNECTION"
	EnvDBPublicConnection = "DB_PUBLIC_CONNECTION"
	EnvJWTSecret          = "JWT_SECRET"
	EnvTokenMode          = "TOKEN_MODE"
	EnvTokenTTL           = "TOKEN_TTL"
	EnvCookieSecure       = "COOKIE_SECURE"
	EnvAdminEmail         = "ADMIN_EMAIL"
	EnvAdminPassword      = "ADMIN_PASSWORD"
	EnvAdminName          = "ADMIN_NAME"
	EnvRedisAddr          = "RATE_LIMIT_REDIS_ADDR"
	EnvRedisPassword      = "RATE_LIMIT_REDIS_PASSWORD"
	EnvTimezone           = "TZ_LOCATION"
)

// Token modes accepted by TokenConfig.Mode.
const (
	TokenModeLegacy = "legacy"
	TokenModeJWT    = "jwt"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
// A .env file (ENV_FILE or ./.env) is applied first without overriding
// variables already present in the process environment.
func LoadFromEnv() (AppConfig, error) {
	if errDotEnv := loadDotEnv(os.Getenv(EnvDotEnvPath)); errDotEnv != nil {
		return AppConfig{}, errDotEnv
	}
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, errStat := os.Stat(path); errStat != nil {
		if os.IsNotExist(errStat) && !explicit {
			return nil
		}
		return fmt.Errorf("stat env file: %w", errStat)
	}
	if errLoad := godotenv.Load(path); errLoad != nil {
		return fmt.Errorf("load env file: %w", errLoad)
	}
	return nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file or environment.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn`, `database.dsn` or DB_CONNECTION)")

// DatabaseConfig describes the privileged and public database connections.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`            // Privileged (service-role) connection.
	PublicDSN    string `yaml:"public-dsn"`     // Public (anonymous-role) connection, optional.
	Pooler       bool   `yaml:"pooler"`         // Use the simple query protocol for transaction poolers.
	MaxOpenConns int    `yaml:"max-open-conns"` // Upper bound on open connections, 0 keeps the driver default.
}

// TokenConfig selects and configures the session token codec.
type TokenConfig struct {
	Mode   string        `yaml:"mode"`
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// CookieConfig configures the auth cookie attributes.
type CookieConfig struct {
	Name   string `yaml:"name"`
	Secure bool   `yaml:"secure"`
}

// PaymentConfig tunes the payment stub.
type PaymentConfig struct {
	Delay       time.Duration `yaml:"delay"`
	SuccessRate float64       `yaml:"success-rate"`
}

// RedisConfig holds the optional Redis backend for rate limiting.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// RateLimitConfig caps requests per window for each client on auth and purchase routes.
type RateLimitConfig struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
	Redis  RedisConfig   `yaml:"redis"`
}

// AdminConfig is the bootstrap administrator created when none exists.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full-name"`
}

// Config is the fully resolved server configuration.
type Config struct {
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`
	Debug     bool            `yaml:"debug"`
	Timezone  string          `yaml:"timezone"`
	CORS      []string        `yaml:"cors-origins"`
	Database  DatabaseConfig  `yaml:"database"`
	Token     TokenConfig     `yaml:"token"`
	Cookie    CookieConfig    `yaml:"cookie"`
	Payment   PaymentConfig   `yaml:"payment"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
	Admin     AdminConfig     `yaml:"admin"`

	// DatabaseDSN is the flat alias of database.dsn.
	DatabaseDSN string `yaml:"database-dsn"`
}

// Defaults applied when the config omits or invalidates a value.
const (
	DefaultPort            = 3000
	DefaultTokenTTL        = 24 * time.Hour
	DefaultCookieName      = "auth-token"
	DefaultPaymentDelay    = 2 * time.Second
	DefaultPaymentSuccess  = 0.9
	DefaultRateLimit       = 5
	DefaultRateLimitWindow = time.Minute
	DefaultRedisPrefix     = "wifi:rl"
	DefaultAdminFullName   = "Administrator"
)

// Load reads the YAML config file (when present) and applies environment overrides.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Port:    DefaultPort,
		Token:   TokenConfig{Mode: TokenModeLegacy, TTL: DefaultTokenTTL},
		Cookie:  CookieConfig{Name: DefaultCookieName, Secure: true},
		Payment: PaymentConfig{Delay: DefaultPaymentDelay, SuccessRate: DefaultPaymentSuccess},
		RateLimit: RateLimitConfig{
			Limit:  DefaultRateLimit,
			Window: DefaultRateLimitWindow,
			Redis:  RedisConfig{Prefix: DefaultRedisPrefix},
		},
	}

	data, errRead := os.ReadFile(configPath)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	case os.IsNotExist(errRead):
	default:
		return Config{}, fmt.Errorf("read config file: %w", errRead)
	}

	applyEnv(&cfg)
	normalize(&cfg)

	if cfg.Database.DSN == "" {
		return Config{}, ErrMissingDatabaseDSN
	}
	return cfg, nil
}

// LoadDatabaseDSN resolves only the privileged database DSN.
func LoadDatabaseDSN(configPath string) (string, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return "", err
	}
	return cfg.Database.DSN, nil
}

func applyEnv(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvDBPublicConnection)); dsn != "" {
		cfg.Database.PublicDSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.Token.Secret = secret
	}
	if mode := strings.TrimSpace(os.Getenv(EnvTokenMode)); mode != "" {
		cfg.Token.Mode = mode
	}
	if ttlRaw := strings.TrimSpace(os.Getenv(EnvTokenTTL)); ttlRaw != "" {
		if ttl, errParse := time.ParseDuration(ttlRaw); errParse == nil && ttl > 0 {
			cfg.Token.TTL = ttl
		}
	}
	if secureRaw := strings.TrimSpace(os.Getenv(EnvCookieSecure)); secureRaw != "" {
		if secure, errParse := strconv.ParseBool(secureRaw); errParse == nil {
			cfg.Cookie.Secure = secure
		}
	}
	if email := strings.TrimSpace(os.Getenv(EnvAdminEmail)); email != "" {
		cfg.Admin.Email = email
	}
	if password := os.Getenv(EnvAdminPassword); password != "" {
		cfg.Admin.Password = password
	}
	if name := strings.TrimSpace(os.Getenv(EnvAdminName)); name != "" {
		cfg.Admin.FullName = name
	}
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		cfg.RateLimit.Redis.Addr = addr
		cfg.RateLimit.Redis.Enabled = true
	}
	if password := os.Getenv(EnvRedisPassword); password != "" {
		cfg.RateLimit.Redis.Password = password
	}
	if tz := strings.TrimSpace(os.Getenv(EnvTimezone)); tz != "" {
		cfg.Timezone = tz
	}
}

func normalize(cfg *Config) {
	cfg.Database.DSN = strings.TrimSpace(cfg.Database.DSN)
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = strings.TrimSpace(cfg.DatabaseDSN)
	}
	cfg.Database.PublicDSN = strings.TrimSpace(cfg.Database.PublicDSN)

	cfg.Token.Mode = strings.ToLower(strings.TrimSpace(cfg.Token.Mode))
	if cfg.Token.Mode != TokenModeJWT {
		cfg.Token.Mode = TokenModeLegacy
	}
	if cfg.Token.TTL <= 0 {
		cfg.Token.TTL = DefaultTokenTTL
	}
	if strings.TrimSpace(cfg.Cookie.Name) == "" {
		cfg.Cookie.Name = DefaultCookieName
	}
	if cfg.Payment.Delay < 0 {
		cfg.Payment.Delay = DefaultPaymentDelay
	}
	if cfg.Payment.SuccessRate <= 0 || cfg.Payment.SuccessRate > 1 {
		cfg.Payment.SuccessRate = DefaultPaymentSuccess
	}
	if cfg.RateLimit.Limit < 0 {
		cfg.RateLimit.Limit = 0
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	cfg.RateLimit.Redis.Addr = strings.TrimSpace(cfg.RateLimit.Redis.Addr)
	cfg.RateLimit.Redis.Prefix = strings.TrimSpace(cfg.RateLimit.Redis.Prefix)
	if cfg.RateLimit.Redis.Prefix == "" {
		cfg.RateLimit.Redis.Prefix = DefaultRedisPrefix
	}
	if cfg.RateLimit.Redis.DB < 0 {
		cfg.RateLimit.Redis.DB = 0
	}
	cfg.Admin.Email = strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if strings.TrimSpace(cfg.Admin.FullName) == "" {
		cfg.Admin.FullName = DefaultAdminFullName
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = DefaultPort
	}
}

// Location resolves the configured timezone, falling back to the process local zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
