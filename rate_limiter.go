package empath

import (
	"sync"
	"time"
)

// ──────────────────────────────────────────────
// Rate Limiter — per-identity sliding window
// ──────────────────────────────────────────────

// RateLimiterConfig bounds requests per identity inside a sliding window.
type RateLimiterConfig struct {
	Window      time.Duration // default 1m
	MaxRequests int           // default 20
}

// DefaultRateLimiterConfig returns production defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Window:      time.Minute,
		MaxRequests: 20,
	}
}

// RateLimiter tracks request timestamps per identity. Windows are pruned
// lazily on each check; a rejected attempt is NOT recorded, so refused
// calls never eat into the next window's budget.
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	windows map[string][]time.Time

	now func() time.Time // injectable for tests
}

// NewRateLimiter creates a limiter.
func NewRateLimiter(config ...RateLimiterConfig) *RateLimiter {
	cfg := DefaultRateLimiterConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateLimiterConfig().Window
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultRateLimiterConfig().MaxRequests
	}
	return &RateLimiter{
		config:  cfg,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// IsRateLimited checks and records one request attempt for identity.
// Returns true when the identity is over budget; the attempt is recorded
// only when allowed.
func (r *RateLimiter) IsRateLimited(identity string) bool {
	now := r.now()
	cutoff := now.Add(-r.config.Window)

	r.mu.Lock()
	defer r.mu.Unlock()

	window := r.windows[identity]
	pruned := window[:0]
	for _, ts := range window {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= r.config.MaxRequests {
		r.windows[identity] = pruned
		return true
	}

	r.windows[identity] = append(pruned, now)
	return false
}

// Reset clears the recorded history for identity. Administrative escape
// hatch; normal operation never needs it.
func (r *RateLimiter) Reset(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, identity)
}
