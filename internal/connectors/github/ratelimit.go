package github

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

// Pacing for one sync. An issue listing is a handful of pages, so a
// small steady rate keeps askwork far from the 5000/hour quota even with
// many requesters.
const (
	defaultQuota   = 5000
	requestsPerSec = 5.0
	burst          = 5

	// reserve is the remaining quota below which requests wait for the
	// window to reset.
	reserve = 100
)

// RateLimiter paces requests locally and tracks the quota the API
// reports on every response.
type RateLimiter struct {
	bucket *rate.Limiter

	mu    sync.Mutex
	quota gh.Rate
}

// NewRateLimiter assumes a full authenticated quota until the first
// response says otherwise.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(requestsPerSec), burst),
		quota:  gh.Rate{Limit: defaultQuota, Remaining: defaultQuota},
	}
}

// Wait blocks for a local token and, when the quota is nearly spent,
// until the reported reset.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	q := r.snapshot()
	if q.Remaining >= reserve || q.Reset.IsZero() {
		return nil
	}
	wait := time.Until(q.Reset.Time)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records the quota go-github parsed from a response. Responses
// without rate headers are ignored.
func (r *RateLimiter) Observe(resp *gh.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	r.mu.Lock()
	r.quota = resp.Rate
	r.mu.Unlock()
}

// Remaining is the last reported remaining quota.
func (r *RateLimiter) Remaining() int { return r.snapshot().Remaining }

// Limit is the last reported hourly quota.
func (r *RateLimiter) Limit() int { return r.snapshot().Limit }

// ResetTime is when the reported quota window ends.
func (r *RateLimiter) ResetTime() time.Time { return r.snapshot().Reset.Time }

func (r *RateLimiter) snapshot() gh.Rate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}
