package stocksdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aussiebroadwan/stockbook/pkg/slogx"
)

// authTransport injects the stored access token and, when a response is
// recoverable, runs exactly one refresh followed by exactly one retry.
//
// If the refresh fails the session is cleared and the original response is
// returned untouched. A retried response is always returned as-is. A request
// whose body cannot be sent twice fails with ErrBodyNotReplayable before any
// refresh is spent on it.
type authTransport struct {
	next        http.RoundTripper
	sessions    SessionStore
	recoverable func(*http.Response) bool
	refresh     func(ctx context.Context) error
	logout      func(ctx context.Context) error

	// mu serializes refreshes so a retry never races its own refresh.
	mu *sync.Mutex
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	sess, err := t.sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	resp, err := t.next.RoundTrip(withBearer(req, sess.AccessToken))
	if err != nil {
		return nil, err
	}
	if !t.recoverable(resp) {
		return resp, nil
	}
	if !replayable(req) {
		closeBody(resp)
		return nil, ErrBodyNotReplayable
	}

	refreshed, err := t.renew(ctx)
	if err != nil {
		closeBody(resp)
		return nil, err
	}
	if !refreshed {
		return resp, nil
	}
	closeBody(resp)

	retry, err := replay(req)
	if err != nil {
		return nil, err
	}

	sess, err = t.sessions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	slogx.FromContext(ctx).Debug("retrying after token refresh")
	return t.next.RoundTrip(withBearer(retry, sess.AccessToken))
}

// renew performs one refresh. It reports false when no refresh token is
// stored or when the refresh was rejected, in which case the session has
// been cleared. An error is returned only when the caller's context ended
// or the store failed.
func (t *authTransport) renew(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.sessions.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if sess.RefreshToken == "" {
		return false, nil
	}

	log := slogx.FromContext(ctx)

	if err := t.refresh(ctx); err != nil {
		// A cancelled call says nothing about the refresh token.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, fmt.Errorf("refresh: %w", ctxErr)
		}

		log.Warn("token refresh failed, logging out", "error", err)
		if err := t.logout(ctx); err != nil {
			return false, fmt.Errorf("logout after failed refresh: %w", err)
		}
		return false, nil
	}

	log.Debug("access token refreshed")
	return true, nil
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// replay rebuilds the request for the retry. Bodies without GetBody were
// consumed by the first attempt and cannot be sent again.
func replay(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, ErrBodyNotReplayable
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replay body: %w", err)
	}
	r.Body = body
	return r, nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
