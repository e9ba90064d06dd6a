package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/stockbook/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the outbound rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// DefaultRateLimit keeps a single client well under what a small backend
// tolerates: 100 requests per minute with bursts of 20.
var DefaultRateLimit = RateLimitConfig{
	RequestsPerWindow: 100,
	Window:            time.Minute,
	Burst:             20,
}

// Enabled reports whether the config describes a usable limit.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerWindow > 0 && c.Window > 0
}

// Limit converts the window form into a per-second rate.
func (c RateLimitConfig) Limit() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// RateLimit throttles outbound requests with a shared token bucket. Unlike a
// server limiter it never rejects, it waits for a token or until the request
// context is done.
func RateLimit(config RateLimitConfig) Middleware {
	if !config.Enabled() {
		return nil
	}

	burst := max(config.Burst, 1)
	limiter := rate.NewLimiter(config.Limit(), burst)

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			ctx := r.Context()

			if !limiter.Allow() {
				log := slogx.FromContext(ctx)
				log.Debug("rate limit: waiting for token",
					"endpoint", r.URL.Path,
					"limit", config.RequestsPerWindow,
					"window", config.Window.String(),
				)
				if err := limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("rate limit wait: %w", err)
				}
			}

			return next.RoundTrip(r)
		})
	}
}
