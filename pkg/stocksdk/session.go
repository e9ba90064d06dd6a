package stocksdk

import (
	"context"
	"sync"
)

// Session is the persisted credential set. An empty UserID means nobody is
// logged in, whatever else is stored.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// LoggedIn reports whether the session belongs to a user.
func (s Session) LoggedIn() bool {
	return s.UserID != ""
}

// SessionStore is the only path to session state. Implementations must
// treat the three values as a unit: Save and Clear replace or remove all of
// them, SetAccessToken touches only the access token.
type SessionStore interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryStore) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.AccessToken = token
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	return nil
}
