package ratelimit

import (
	"context"
	"sync"
	"time"
)

// memorySweepInterval bounds how often expired counters are dropped.
const memorySweepInterval = time.Minute

type memoryCounter struct {
	window int64
	count  int
	reset  time.Time
}

// MemoryLimiter is a per-process fixed-window limiter.
type MemoryLimiter struct {
	mu        sync.Mutex
	counters  map[string]*memoryCounter
	lastSweep time.Time
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{counters: make(map[string]*memoryCounter)}
}

// Allow counts one request for key in the window containing now.
func (l *MemoryLimiter) Allow(_ context.Context, key string, quota Quota, now time.Time) (Result, error) {
	if !quota.Enabled() || key == "" {
		return Result{Allowed: true}, nil
	}
	window, reset := windowBounds(now, quota.Window)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)

	counter := l.counters[key]
	if counter == nil || counter.window != window {
		counter = &memoryCounter{window: window, reset: reset}
		l.counters[key] = counter
	}
	if counter.count >= quota.Limit {
		return allowedResult(quota.Limit, quota.Limit+1, reset, now), nil
	}
	counter.count++
	return allowedResult(quota.Limit, counter.count, reset, now), nil
}

// Len reports how many counters are held.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < memorySweepInterval {
		return
	}
	l.lastSweep = now
	for key, counter := range l.counters {
		if !now.Before(counter.reset) {
			delete(l.counters, key)
		}
	}
}
