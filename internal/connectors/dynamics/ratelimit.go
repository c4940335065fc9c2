package dynamics

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration for the Dataverse Web API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimit is a conservative default for Dataverse service protection.
// Dataverse enforces ~6000 requests per 5 minutes per user (~20/sec); we stay
// well under it to avoid tripping the quota.
var DefaultRateLimit = RateLimitConfig{RequestsPerSecond: 10.0, BurstSize: 15}

// RateLimiter throttles outbound Dataverse requests with a token bucket.
// It does not retry or back off after the fact; a throttled response is
// surfaced to the caller like any other non-success status.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the default configuration.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit)
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
