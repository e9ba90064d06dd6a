package stocksdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/stockbook/pkg/jwtx"
)

// Login exchanges credentials for a token pair and persists the session.
// When the response omits user_id it is read from the access token claims.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	resp, err := c.doToken(ctx, "token/", req)
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		return nil, ErrIncompleteTokenResponse
	}

	userID := string(tokens.UserID)
	if userID == "" {
		claims, err := jwtx.ParseUnverified(tokens.Access)
		if err != nil {
			return nil, fmt.Errorf("%w: no user_id: %v", ErrIncompleteTokenResponse, err)
		}
		userID = claims.UserIDString()
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: no user_id", ErrIncompleteTokenResponse)
	}

	if err := c.sessions.Save(ctx, Session{
		UserID:       userID,
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.logger.Info("logged in", "user_id", userID)
	return &tokens, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	resp, err := c.doToken(ctx, "register/", req)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades the stored refresh token for a new access token. Only the
// access token is overwritten.
func (c *Client) Refresh(ctx context.Context) error {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	resp, err := c.doToken(ctx, "token/refresh/", refreshRequest{Refresh: sess.RefreshToken})
	if err != nil {
		return err
	}

	var out refreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return err
	}
	if out.Access == "" {
		return ErrIncompleteTokenResponse
	}

	if err := c.sessions.SetAccessToken(ctx, out.Access); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	return nil
}

// Logout forgets the session. It never calls the API and is safe to repeat.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a user id is stored.
func (c *Client) IsLoggedIn(ctx context.Context) (bool, error) {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	return sess.LoggedIn(), nil
}

// CurrentSession returns a copy of the stored session.
func (c *Client) CurrentSession(ctx context.Context) (Session, error) {
	sess, err := c.sessions.Load(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// doToken posts JSON to a token endpoint without the gateway.
func (c *Client) doToken(ctx context.Context, path string, body any) (*http.Response, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.tokenHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
