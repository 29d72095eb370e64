package httpclient

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is used when a 429 response carries no usable Retry-After.
const DefaultBackoff = 10 * time.Second

// RateLimiter throttles requests to the Location Data Service.
// It uses a token bucket and honours backoff periods signalled by 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
// A non-positive rate disables throttling.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent or ctx is done.
// Any backoff from RecordRateLimited is waited out first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		timer := time.NewTimer(retryAt.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimited sets a backoff period from a Retry-After header value.
// Only the delta-seconds form is understood; anything else uses DefaultBackoff.
func (r *RateLimiter) RecordRateLimited(retryAfter string) {
	backoff := DefaultBackoff
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		backoff = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = r.now().Add(backoff)
}

// RetryAt returns the end of the current backoff period, if any.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
