package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the single-instance fallback used when Redis is not configured.
type MemoryLimiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	current int64
	counts  map[string]int
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:    cfg,
		now:    time.Now,
		counts: make(map[string]int),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.cfg.Enabled() {
		return true, nil
	}

	b := bucket(l.now(), l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// a new window drops every counter of the previous one
	if b != l.current {
		l.current = b
		l.counts = make(map[string]int)
	}
	l.counts[key]++
	return l.counts[key] <= l.cfg.Requests, nil
}
