package google

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
)

// ServiceType identifies a Google API service for rate limiting purposes.
type ServiceType string

const (
	// ServiceGmail is the Gmail API service.
	ServiceGmail ServiceType = "gmail"
	// ServiceCalendar is the Google Calendar API service.
	ServiceCalendar ServiceType = "calendar"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits stays well below Google's per-user quotas.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceGmail:    {RequestsPerSecond: 10.0, BurstSize: 20},
	ServiceCalendar: {RequestsPerSecond: 5.0, BurstSize: 10},
}

// defaultBackoff applies when a 429 carries no Retry-After header.
const defaultBackoff = 30 * time.Second

// RateLimiter paces requests with a token bucket and honours the
// backoff of the last 429. It never retries.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a new rate limiter for the specified service.
func NewRateLimiter(service ServiceType) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	return NewRateLimiterWithConfig(cfg)
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate
// limit or the current backoff.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Observe records the backoff of a rate-limited response and returns
// err converted by WrapError.
func (r *RateLimiter) Observe(err error) error {
	if err == nil {
		return nil
	}
	if IsRateLimited(err) {
		r.backoff(retryAfter(err))
	}
	return WrapError(err)
}

func (r *RateLimiter) backoff(d time.Duration) {
	if d <= 0 {
		d = defaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// retryAfter reads the Retry-After header (seconds) of a googleapi error.
func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}
