package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter owned by one provider client.
// Keeping the bucket on the client, instead of module-level "last call"
// timestamps, lets every provider carry its own budget and makes the
// limiter trivially testable.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	interval time.Duration
	lastFill time.Time
}

// NewRateLimiter allows capacity calls per interval, refilling one
// token every interval.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   capacity,
		capacity: capacity,
		interval: interval,
		lastFill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

func (r *RateLimiter) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	refill := int(now.Sub(r.lastFill) / r.interval)
	if refill > 0 {
		r.tokens += refill
		if r.tokens > r.capacity {
			r.tokens = r.capacity
		}
		r.lastFill = r.lastFill.Add(time.Duration(refill) * r.interval)
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
