package stocksdk

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeAPI routes "METHOD path" (path relative to /api/) to handlers and
// records what each route received.
type fakeAPI struct {
	*httptest.Server

	mu     sync.Mutex
	hits   map[string]int
	auth   map[string][]string
	bodies map[string][]string
}

func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) *fakeAPI {
	t.Helper()

	f := &fakeAPI{
		hits:   make(map[string]int),
		auth:   make(map[string][]string),
		bodies: make(map[string][]string),
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api/")

		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.hits[key]++
		f.auth[key] = append(f.auth[key], r.Header.Get("Authorization"))
		f.bodies[key] = append(f.bodies[key], string(body))
		f.mu.Unlock()

		h, ok := routes[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *fakeAPI) Hits(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeAPI) Auth(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth[key]...)
}

func (f *fakeAPI) Bodies(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies[key]...)
}

func (f *fakeAPI) client(t *testing.T, store SessionStore, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithTimeout(5 * time.Second)}, opts...)
	c, err := NewClient(f.URL+"/api/", store, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, v)
	}
}

// bearerRoute answers ok for the wanted token and 401 otherwise.
func bearerRoute(want string, ok any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+want {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		if ok == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		status := http.StatusOK
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		writeJSON(w, status, ok)
	}
}

// refreshRoute hands out access for the expected refresh token.
func refreshRoute(wantRefresh, access string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Refresh != wantRefresh {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access})
	}
}

func mintAccess(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func seeded(userID, access, refresh string) *MemoryStore {
	s := NewMemoryStore()
	s.session = Session{UserID: userID, AccessToken: access, RefreshToken: refresh}
	return s
}
