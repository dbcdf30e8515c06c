// Package store is the data access layer over an injected gorm handle.
//
// Reads that back dashboards and listings log failures and return empty
// results so a single broken query does not blank the whole admin page.
// Writes always return their error.
package store

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotInitialized is returned by writes on a Store without a database.
var ErrNotInitialized = errors.New("store: not initialized")

// Store reads and writes application records.
type Store struct {
	db       *gorm.DB
	publicDB *gorm.DB
	now      func() time.Time
	loc      *time.Location
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used for day boundaries and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the location used for calendar-day and day-part math.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithPublicDB routes public catalogue reads through a lower-privileged connection.
func WithPublicDB(db *gorm.DB) Option {
	return func(s *Store) {
		if db != nil {
			s.publicDB = db
		}
	}
}

// New constructs a Store.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	if s.publicDB == nil {
		s.publicDB = db
	}
	return s
}

// DB exposes the privileged handle for health checks.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Location returns the configured location.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the current time from the configured clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Ping checks the privileged connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) ready() bool {
	return s != nil && s.db != nil
}

func (s *Store) read(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// logReadError records a swallowed read failure.
func logReadError(op string, err error) {
	log.WithError(err).WithField("op", op).Error("store read failed")
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
