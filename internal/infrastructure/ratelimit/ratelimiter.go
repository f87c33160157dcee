// Package ratelimit provides fixed-window request limiting keyed by an arbitrary
// identifier, usually the client IP.
package ratelimit

import (
	"context"
	"time"
)

// Config is the allowance per window. A non-positive Requests disables limiting.
type Config struct {
	Requests int
	Window   time.Duration
}

func (c Config) Enabled() bool {
	return c.Requests > 0 && c.Window > 0
}

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// bucket returns the index of the fixed window containing now.
func bucket(now time.Time, window time.Duration) int64 {
	return now.UnixNano() / int64(window)
}
