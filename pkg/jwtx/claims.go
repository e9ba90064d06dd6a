package jwtx

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Claims are the access-token claims the inventory API issues. The client
// never holds the signing key, so these are read for display and for
// bookkeeping only, never trusted for authorization.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the numeric account id the API embeds in every token.
	UserID FlexibleID `json:"user_id,omitempty"`

	// TokenType is "access" or "refresh".
	TokenType string `json:"token_type,omitempty"`
}

// ParseUnverified decodes the claims of token without checking its
// signature.
func ParseUnverified(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformed
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithJSONNumber())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return &claims, nil
}

// UserIDString returns the user_id claim, falling back to sub.
func (c *Claims) UserIDString() string {
	if c.UserID != "" {
		return string(c.UserID)
	}
	return c.Subject
}

// ExpiresIn returns how long until exp, negative once expired. Tokens without
// exp report zero.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// Expired reports whether exp has passed, allowing leeway.
func (c *Claims) Expired(now time.Time, leeway time.Duration) bool {
	return errors.Is(c.ValidateExpiryWithLeeway(now, leeway), ErrExpired)
}

// FlexibleID is an account id that arrives either as a JSON number or as a
// string. Both 7 and "7" decode to "7".
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}
