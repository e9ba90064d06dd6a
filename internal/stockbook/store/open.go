package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/store/drivers/redis"
	"github.com/aussiebroadwan/stockbook/internal/stockbook/store/drivers/sqlite"
	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config selects and configures a session driver.
type Config struct {
	Driver string // sqlite (default), redis or memory

	DatabaseFile string // sqlite: path to the database file

	RedisURL    string // redis: redis://[:password@]host:port/db
	RedisPrefix string // redis: key prefix (default: stockbook)

	// Sealer encrypts tokens at rest. Required for sqlite and redis.
	Sealer Sealer
}

// Open returns the configured session store. For sqlite, pending schema
// migrations are applied before returning.
func Open(ctx context.Context, cfg Config) (SessionStore, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	if driver == DriverMemory {
		return memorySessions{stocksdk.NewMemoryStore()}, nil
	}
	if cfg.Sealer == nil {
		return nil, errors.New("store: a sealer is required for persistent drivers")
	}

	var (
		backend Backend
		err     error
	)
	switch driver {
	case DriverSQLite:
		backend, err = openSQLite(cfg.DatabaseFile)
	case DriverRedis:
		backend, err = redis.NewStoreFromURL(cfg.RedisURL, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := backend.Ping(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("store: %s unreachable: %w", driver, err)
	}

	return NewSessions(backend, cfg.Sealer), nil
}

func openSQLite(path string) (*sqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: sqlite database file is required")
	}

	db, err := sqlite.NewStore(sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply session migrations: %w", err)
	}
	return db, nil
}

// sqliteDSN builds a file: URI for path. The path is percent-escaped so a
// '?', '#' or '%' in it cannot cut off the pragmas.
func sqliteDSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	}
	return u.String()
}
