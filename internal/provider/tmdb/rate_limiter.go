package tmdb

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a sliding window limiter shared by every TMDB call made
// during one lookup.
type rateLimiter struct {
	mu          sync.Mutex
	requests    []time.Time
	maxRequests int
	window      time.Duration
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

// wait blocks until a request fits in the window. It only fails when ctx is
// done first.
func (r *rateLimiter) wait(ctx context.Context) error {
	for {
		delay := r.reserve(time.Now())
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records a request at now when there is room and returns zero,
// otherwise it returns how long until the oldest request leaves the window.
func (r *rateLimiter) reserve(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	valid := r.requests[:0]
	for _, req := range r.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	r.requests = valid

	if len(r.requests) < r.maxRequests {
		r.requests = append(r.requests, now)
		return 0
	}

	// 10ms of slack so the oldest entry has really expired on wake-up
	return r.window - now.Sub(r.requests[0]) + 10*time.Millisecond
}
