package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes how a connection is opened.
type Options struct {
	// Pooler switches pgx to the simple query protocol, required behind
	// transaction-mode poolers that cannot keep prepared statements.
	Pooler       bool
	MaxOpenConns int
	Debug        bool
}

// Open opens a database connection with default options.
func Open(dsn string) (*gorm.DB, error) {
	return OpenWithOptions(dsn, Options{})
}

// OpenWithOptions opens a PostgreSQL or SQLite connection depending on the DSN.
func OpenWithOptions(dsn string, opts Options) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("db: empty dsn")
	}

	gormCfg := &gorm.Config{Logger: newLogger(opts.Debug)}

	var (
		conn *gorm.DB
		err  error
	)
	if IsSQLiteDSN(dsn) {
		conn, err = gorm.Open(sqlite.Open(SQLiteDSN(dsn)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite: %w", err)
		}
	} else {
		pgCfg, errParse := pgx.ParseConfig(dsn)
		if errParse != nil {
			return nil, fmt.Errorf("db: parse postgres dsn: %w", errParse)
		}
		if opts.Pooler {
			pgCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		}
		sqlDB := stdlib.OpenDB(*pgCfg)
		conn, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("db: open postgres: %w", err)
		}
	}

	if opts.MaxOpenConns > 0 {
		sqlDB, errDB := conn.DB()
		if errDB != nil {
			return nil, fmt.Errorf("db: get sql db: %w", errDB)
		}
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	return conn, nil
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) {
	if conn == nil {
		return
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return
	}
	if errClose := sqlDB.Close(); errClose != nil {
		log.Errorf("sql db close error: %v", errClose)
	}
}

// SQLiteDSN normalizes a SQLite path or DSN and appends default pragmas.
func SQLiteDSN(path string) string {
	dsn := strings.TrimSpace(path)
	if !strings.HasPrefix(strings.ToLower(dsn), "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + strings.Join([]string{
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=foreign_keys(1)",
		"_pragma=synchronous(NORMAL)",
	}, "&")
}

func newLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
