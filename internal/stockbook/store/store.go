package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

// Persisted key names. They are always written and cleared together.
const (
	KeyUserID       = "user_id"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

var sessionKeys = []string{KeyUserID, KeyAccessToken, KeyRefreshToken}

var (
	// ErrCorruptSession is returned when a stored token cannot be unsealed,
	// usually because the master key changed.
	ErrCorruptSession = errors.New("store: session data is corrupt")

	ErrUnknownDriver = errors.New("store: unknown session driver")
)

// Backend is the raw key/value storage a driver provides. Put and Delete
// must be atomic across all keys they are given.
type Backend interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Put(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
	Close() error
}

// Sealer encrypts token values at rest.
type Sealer interface {
	SealString(plaintext string) ([]byte, error)
	OpenString(sealed []byte) (string, error)
}

// SessionStore is a stocksdk.SessionStore with a lifecycle.
type SessionStore interface {
	stocksdk.SessionStore

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Sessions maps the session onto a Backend. The user id is stored as-is;
// both tokens are sealed.
type Sessions struct {
	backend Backend
	sealer  Sealer
}

func NewSessions(backend Backend, sealer Sealer) *Sessions {
	return &Sessions{backend: backend, sealer: sealer}
}

func (s *Sessions) Load(ctx context.Context) (stocksdk.Session, error) {
	values, err := s.backend.Get(ctx, sessionKeys...)
	if err != nil {
		return stocksdk.Session{}, fmt.Errorf("read session: %w", err)
	}

	access, err := s.open(values[KeyAccessToken])
	if err != nil {
		return stocksdk.Session{}, fmt.Errorf("%w: access token: %v", ErrCorruptSession, err)
	}
	refresh, err := s.open(values[KeyRefreshToken])
	if err != nil {
		return stocksdk.Session{}, fmt.Errorf("%w: refresh token: %v", ErrCorruptSession, err)
	}

	return stocksdk.Session{
		UserID:       string(values[KeyUserID]),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *Sessions) Save(ctx context.Context, sess stocksdk.Session) error {
	access, err := s.seal(sess.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := s.seal(sess.RefreshToken)
	if err != nil {
		return err
	}

	return s.backend.Put(ctx, map[string][]byte{
		KeyUserID:       []byte(sess.UserID),
		KeyAccessToken:  access,
		KeyRefreshToken: refresh,
	})
}

func (s *Sessions) SetAccessToken(ctx context.Context, token string) error {
	access, err := s.seal(token)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, map[string][]byte{KeyAccessToken: access})
}

func (s *Sessions) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, sessionKeys...)
}

func (s *Sessions) Ping(ctx context.Context) error { return s.backend.Ping(ctx) }
func (s *Sessions) Close() error                   { return s.backend.Close() }

// Empty values are kept empty so a missing token never looks corrupt.
func (s *Sessions) seal(token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}
	sealed, err := s.sealer.SealString(token)
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	return sealed, nil
}

func (s *Sessions) open(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	return s.sealer.OpenString(sealed)
}

// memorySessions adapts stocksdk.MemoryStore to SessionStore.
type memorySessions struct {
	*stocksdk.MemoryStore
}

func (memorySessions) Ping(context.Context) error { return nil }
func (memorySessions) Close() error               { return nil }
