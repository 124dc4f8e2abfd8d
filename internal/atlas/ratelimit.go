package atlas

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuotaExceeded is returned when the daily Data API request quota has
// been exhausted.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// RateLimiter throttles Data API traffic: a token bucket caps the
// per-second rate, and a rolling 24-hour counter caps total daily usage
// (managed gateways meter free tiers by request count).
type RateLimiter struct {
	bucket   *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time source for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter builds a limiter with the given per-second rate, burst
// size, and daily quota. The daily window starts at the first call and
// resets 24 hours later.
func NewRateLimiter(perSecond float64, burst int, maxDaily int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		bucket:   rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until a request may proceed or the context is canceled.
// Returns ErrQuotaExceeded once the daily quota is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.maybeResetWindow()

	if r.daily.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrQuotaExceeded, r.daily.Load(), r.maxDaily)
	}

	if err := r.bucket.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.daily.Add(1)
	return nil
}

// DailyCount returns requests spent in the current window.
func (r *RateLimiter) DailyCount() int64 {
	return r.daily.Load()
}

// Remaining returns requests left in the current window.
func (r *RateLimiter) Remaining() int64 {
	left := r.maxDaily - r.daily.Load()
	if left < 0 {
		return 0
	}
	return left
}

func (r *RateLimiter) maybeResetWindow() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
