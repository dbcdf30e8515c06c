package ratelimit

import (
	"context"
	"time"
)

// Quota is the number of requests allowed per fixed window.
type Quota struct {
	Limit  int
	Window time.Duration
}

// Enabled reports whether the quota limits anything.
func (q Quota) Enabled() bool {
	return q.Limit > 0 && q.Window > 0
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter counts requests per key within fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, quota Quota, now time.Time) (Result, error)
}

// Scope indicates which dimension the rate limit applies to.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeClientIP
	ScopeUser
)

// Decision describes the resolved quota, its scope and the subject it counts against.
type Decision struct {
	Quota   Quota
	Scope   Scope
	Subject string
}

// windowBounds returns the index of the window containing now and the instant it ends.
func windowBounds(now time.Time, window time.Duration) (int64, time.Time) {
	index := now.UnixNano() / int64(window)
	return index, time.Unix(0, (index+1)*int64(window)).UTC()
}

func allowedResult(limit, count int, reset, now time.Time) Result {
	if count > limit {
		return Result{Allowed: false, Reset: reset, RetryAfter: reset.Sub(now)}
	}
	return Result{Allowed: true, Remaining: limit - count, Reset: reset}
}
