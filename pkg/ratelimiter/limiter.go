package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter wraps golang.org/x/time/rate.Limiter
type RateLimiter struct {
	limiter *rate.Limiter
	burst   int
	rps     int
}

// NewRateLimiter creates a new rate limiter using golang.org/x/time/rate
// ratePerToken: time between token generation (e.g., 100ms for 10 RPS)
// burst: maximum number of tokens in bucket
func NewRateLimiter(ratePerToken time.Duration, burst int) *RateLimiter {
	rps := int(time.Second / ratePerToken)
	if rps <= 0 {
		rps = 1
	}
	return NewRateLimiterFromRPS(rps, burst)
}

// NewRateLimiterFromRPS creates a rate limiter directly from RPS
func NewRateLimiterFromRPS(rps int, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		burst:   burst,
		rps:     rps,
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking
func (rl *RateLimiter) TryAcquire() bool {
	return rl.limiter.Allow()
}

// GetStats returns current limiter statistics
func (rl *RateLimiter) GetStats() (available, capacity int, rateDuration time.Duration) {
	available = int(rl.limiter.Tokens())
	if available < 0 {
		available = 0
	}
	capacity = rl.burst
	rateDuration = time.Second / time.Duration(rl.rps)
	return
}

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*RateLimiter)
)

// Shared returns one limiter per (host, rps, burst) so that every trigger
// talking to the same explorer draws from a single bucket.
func Shared(host string, rps, burst int) *RateLimiter {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	key := fmt.Sprintf("%s_%d_%d", host, rps, burst)
	if l, ok := shared[key]; ok {
		return l
	}
	l := NewRateLimiterFromRPS(rps, burst)
	shared[key] = l
	return l
}
