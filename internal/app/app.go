package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/config"
	"github.com/router-for-me/WiFiVoucher/internal/db"
	admin "github.com/router-for-me/WiFiVoucher/internal/http/api/admin"
	"github.com/router-for-me/WiFiVoucher/internal/http/api/front"
	"github.com/router-for-me/WiFiVoucher/internal/http/pages"
	"github.com/router-for-me/WiFiVoucher/internal/metrics"
	"github.com/router-for-me/WiFiVoucher/internal/payment"
	"github.com/router-for-me/WiFiVoucher/internal/ratelimit"
	"github.com/router-for-me/WiFiVoucher/internal/security"
	"github.com/router-for-me/WiFiVoucher/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// Migrate opens the privileged database and runs migrations.
func Migrate(ctx context.Context, appCfg config.AppConfig) error {
	cfg, err := config.Load(config.ResolveConfigPath(appCfg.ConfigPath))
	if err != nil {
		return err
	}
	conn, err := db.OpenWithOptions(cfg.Database.DSN, dbOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close(conn)
	return db.Migrate(conn.WithContext(ctx))
}

// Deps are the collaborators the HTTP engine is assembled from.
type Deps struct {
	Config  config.Config
	Store   *store.Store
	Codec   security.TokenCodec
	Gateway payment.Gateway
	Limiter *ratelimit.Manager
	Metrics *metrics.Metrics
}

// NewEngine builds the gin engine serving the API, the pages and the operational endpoints.
func NewEngine(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery())
	if corsMiddleware := newCORS(deps.Config.CORS); corsMiddleware != nil {
		engine.Use(corsMiddleware)
	}
	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Middleware())
		engine.GET("/metrics", deps.Metrics.Handler())
	}

	front.RegisterFrontRoutes(engine, front.Deps{
		Store:   deps.Store,
		Codec:   deps.Codec,
		Gateway: deps.Gateway,
		Limiter: deps.Limiter,
		Metrics: deps.Metrics,
		Cookie:  deps.Config.Cookie,
		TTL:     deps.Config.Token.TTL,
	})
	admin.RegisterAdminRoutes(engine, deps.Store, deps.Codec, deps.Config.Cookie.Name)
	pages.RegisterPageRoutes(engine, deps.Codec, deps.Config.Cookie.Name)

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.Redirect(http.StatusFound, "/")
	})
	return engine
}

// RunServer boots the HTTP server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, appCfg config.AppConfig, portOverride int) error {
	configPath := config.ResolveConfigPath(appCfg.ConfigPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if portOverride > 0 {
		cfg.Port = portOverride
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	codec, err := NewTokenCodec(cfg.Token)
	if err != nil {
		return err
	}

	conn, err := db.OpenWithOptions(cfg.Database.DSN, dbOptions(cfg))
	if err != nil {
		return err
	}
	defer db.Close(conn)
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	publicConn, errPublic := openPublic(cfg, conn)
	if errPublic != nil {
		return errPublic
	}
	if publicConn != conn {
		defer db.Close(publicConn)
	}

	s := store.New(conn, store.WithLocation(loc), store.WithPublicDB(publicConn))
	if errAdmin := EnsureBootstrapAdmin(ctx, s, cfg.Admin); errAdmin != nil {
		return errAdmin
	}

	engine := NewEngine(Deps{
		Config:  cfg,
		Store:   s,
		Codec:   codec,
		Gateway: payment.NewStub(cfg.Payment.Delay, cfg.Payment.SuccessRate, nil),
		Limiter: ratelimit.NewManager(ratelimit.StaticSettings(ratelimit.SettingsFromConfig(cfg.RateLimit)), nil, nil),
		Metrics: metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.WithFields(log.Fields{
		"addr":     srv.Addr,
		"config":   configPath,
		"database": describeDSN(cfg.Database.DSN),
		"token":    cfg.Token.Mode,
		"timezone": loc.String(),
	}).Info("starting voucher server")

	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return errListen
	}
	return nil
}

// NewTokenCodec selects the session token codec for the configured mode.
func NewTokenCodec(cfg config.TokenConfig) (security.TokenCodec, error) {
	switch cfg.Mode {
	case config.TokenModeJWT:
		codec, err := security.NewJWTCodec(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("token codec: %w", err)
		}
		return codec, nil
	default:
		log.Warn("using unsigned legacy session tokens; set token.mode=jwt with a secret to sign them")
		return security.NewLegacyCodec(), nil
	}
}

func dbOptions(cfg config.Config) db.Options {
	return db.Options{
		Pooler:       cfg.Database.Pooler,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Debug:        cfg.Debug,
	}
}

// openPublic opens the public-role connection, reusing conn when none is configured.
func openPublic(cfg config.Config, conn *gorm.DB) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.Database.PublicDSN)
	if dsn == "" || dsn == cfg.Database.DSN {
		return conn, nil
	}
	publicConn, err := db.OpenWithOptions(dsn, dbOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("open public database: %w", err)
	}
	log.WithField("database", describeDSN(dsn)).Info("public reads use a separate connection")
	return publicConn, nil
}

func newCORS(origins []string) gin.HandlerFunc {
	cleaned := make([]string, 0, len(origins))
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		cleaned = append(cleaned, origin)
	}
	if !allowAll && len(cleaned) == 0 {
		return nil
	}
	corsCfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cleaned
		corsCfg.AllowCredentials = true
	}
	return cors.New(corsCfg)
}

// requestLogger writes one logrus entry per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"status":   status,
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"ip":       c.ClientIP(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Debug("request")
		}
	}
}
