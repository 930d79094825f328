package empath

import (
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// Rate Limiter tests
// ══════════════════════════════════════════════

func newClockedLimiter(config RateLimiterConfig) (*RateLimiter, *time.Time) {
	limiter := NewRateLimiter(config)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter, _ := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 3})

	for i := 0; i < 3; i++ {
		if limiter.IsRateLimited("user_1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if !limiter.IsRateLimited("user_1") {
		t.Fatal("request over budget should be rejected")
	}
}

func TestRateLimiter_WindowRecovery(t *testing.T) {
	limiter, now := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 2})

	limiter.IsRateLimited("user_1")
	limiter.IsRateLimited("user_1")
	if !limiter.IsRateLimited("user_1") {
		t.Fatal("third request inside the window should be rejected")
	}

	*now = now.Add(61 * time.Second)

	if limiter.IsRateLimited("user_1") {
		t.Fatal("request after the window elapsed should be allowed")
	}
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	limiter, now := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 2})

	limiter.IsRateLimited("user_1") // t=0
	*now = now.Add(40 * time.Second)
	limiter.IsRateLimited("user_1") // t=40

	*now = now.Add(10 * time.Second) // t=50, both still inside
	if !limiter.IsRateLimited("user_1") {
		t.Fatal("expected rejection while both requests are in the window")
	}

	*now = now.Add(20 * time.Second) // t=70, first request aged out
	if limiter.IsRateLimited("user_1") {
		t.Fatal("expected allowance once the oldest request slid out")
	}
}

func TestRateLimiter_RejectedAttemptsNotRecorded(t *testing.T) {
	limiter, now := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 1})

	limiter.IsRateLimited("user_1") // recorded at t=0
	for i := 0; i < 5; i++ {
		limiter.IsRateLimited("user_1") // rejected, must not extend the window
	}

	*now = now.Add(61 * time.Second)
	if limiter.IsRateLimited("user_1") {
		t.Fatal("rejected attempts must not count against the next window")
	}
}

func TestRateLimiter_IdentitiesAreIsolated(t *testing.T) {
	limiter, _ := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 1})

	if limiter.IsRateLimited("user_1") {
		t.Fatal("first request for user_1 should be allowed")
	}
	if limiter.IsRateLimited("user_2") {
		t.Fatal("user_2 has its own budget")
	}
	if !limiter.IsRateLimited("user_1") {
		t.Fatal("user_1 should now be over budget")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	limiter, _ := newClockedLimiter(RateLimiterConfig{Window: time.Minute, MaxRequests: 1})

	limiter.IsRateLimited("user_1")
	if !limiter.IsRateLimited("user_1") {
		t.Fatal("expected rejection before reset")
	}

	limiter.Reset("user_1")

	if limiter.IsRateLimited("user_1") {
		t.Fatal("expected allowance after reset")
	}
}

func TestRateLimiter_DefaultsApplied(t *testing.T) {
	limiter := NewRateLimiter()
	if limiter.config.Window != time.Minute {
		t.Fatalf("expected default window 1m, got %s", limiter.config.Window)
	}
	if limiter.config.MaxRequests != 20 {
		t.Fatalf("expected default max 20, got %d", limiter.config.MaxRequests)
	}
}
