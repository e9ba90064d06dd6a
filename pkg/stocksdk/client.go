package stocksdk

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/stockbook/pkg/httpx"
	"github.com/aussiebroadwan/stockbook/pkg/slogx"
)

// DefaultTimeout bounds a whole call, including any refresh and retry.
const DefaultTimeout = 30 * time.Second

// Client talks to the inventory API. Every call outside the token endpoints
// goes through the session gateway, which injects the bearer token and
// performs at most one refresh-and-retry on a 401.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	sessions SessionStore
	logger   *slog.Logger

	// tokenHTTP serves token/, token/refresh/ and register/ and never
	// refreshes. apiHTTP wraps the same stack with the gateway.
	tokenHTTP *http.Client
	apiHTTP   *http.Client

	refreshMu sync.Mutex
}

type options struct {
	transport   http.RoundTripper
	timeout     time.Duration
	logger      *slog.Logger
	userAgent   string
	middleware  []httpx.Middleware
	recoverable func(*http.Response) bool
}

// Option configures a Client.
type Option func(*options)

// WithTransport sets the base transport. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger used for request logging and gateway events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithMiddleware appends transport middleware that runs for every attempt,
// retries included (rate limiting belongs here).
func WithMiddleware(mws ...httpx.Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, mws...) }
}

// WithRecoverable replaces the predicate that decides whether a response is
// an authentication failure worth one refresh. Defaults to status 401.
func WithRecoverable(fn func(*http.Response) bool) Option {
	return func(o *options) { o.recoverable = fn }
}

// NewClient creates a client for the API rooted at baseURL. A nil store
// falls back to an in-memory one.
func NewClient(baseURL string, sessions SessionStore, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	o := options{
		transport:   http.DefaultTransport,
		timeout:     DefaultTimeout,
		userAgent:   "stockbook",
		recoverable: isUnauthorizedResponse,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slogx.Discard()
	}
	if sessions == nil {
		sessions = NewMemoryStore()
	}

	c := &Client{
		baseURL:  base,
		sessions: sessions,
		logger:   o.logger,
	}

	// Middleware passed by the caller sits closest to the wire so every
	// attempt is counted. Logging and headers sit outside the gateway so a
	// retry keeps the request id of the original call.
	inner := httpx.Chain(o.transport, o.middleware...)
	outer := []httpx.Middleware{
		slogx.Transport(o.logger),
		httpx.UserAgent(o.userAgent),
		httpx.AcceptJSON(),
	}

	gw := &authTransport{
		next:        inner,
		sessions:    sessions,
		recoverable: o.recoverable,
		refresh:     c.Refresh,
		logout:      c.Logout,
		mu:          &c.refreshMu,
	}

	c.tokenHTTP = &http.Client{
		Transport: httpx.Chain(inner, outer...),
		Timeout:   o.timeout,
	}
	c.apiHTTP = &http.Client{
		Transport: httpx.Chain(gw, outer...),
		Timeout:   o.timeout,
	}

	return c, nil
}

// BaseURL returns the API root with a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Sessions exposes the store the client reads and writes.
func (c *Client) Sessions() SessionStore {
	return c.sessions
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("stocksdk: base URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("stocksdk: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("stocksdk: base URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("stocksdk: base URL has no host")
	}

	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func isUnauthorizedResponse(resp *http.Response) bool {
	return resp.StatusCode == http.StatusUnauthorized
}
