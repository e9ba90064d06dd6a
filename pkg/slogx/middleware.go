package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/stockbook/pkg/idx"
)

// RequestIDHeader carries the per-request ULID to the API.
const RequestIDHeader = "X-Request-ID"

// Transport logs outbound requests and attaches a contextual logger into the
// request context. The request ID comes from the X-Request-ID header, then
// from the context, and is generated when neither carries one.
func Transport(base *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = RequestIDFromContext(r.Context())
			}
			if reqID == "" {
				reqID = idx.New().String()
			}

			ctx := WithRequestID(WithContext(r.Context(), base.With(
				"method", r.Method,
				"path", r.URL.Path,
			)), reqID)
			logger := FromContext(ctx)
			out := r.Clone(ctx)
			out.Header.Set(RequestIDHeader, reqID)

			resp, err := next.RoundTrip(out)
			duration := time.Since(start).Milliseconds()
			if err != nil {
				logger.Debug("http_request_failed", "duration_ms", duration, "error", err)
				return nil, err
			}

			logger.Debug("http_request",
				"status", resp.StatusCode,
				"duration_ms", duration,
			)
			return resp, nil
		})
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
