package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/store"
	"github.com/aussiebroadwan/stockbook/pkg/httpx"
)

type Config struct {
	APIURL string `env:"STOCKBOOK_API_URL"` // Required: base URL of the inventory API, e.g. https://shop.example/api/

	SessionDriver string `env:"STOCKBOOK_SESSION_DRIVER" envDefault:"sqlite"` // sqlite, redis or memory
	DatabaseFile  string `env:"STOCKBOOK_DATABASE_FILE"`                       // Optional: default <config dir>/stockbook/session.db
	RedisURL      string `env:"STOCKBOOK_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string `env:"STOCKBOOK_REDIS_PREFIX" envDefault:"stockbook"`
	MasterKeyPath string `env:"STOCKBOOK_MASTER_KEY_PATH"` // Optional: default <config dir>/stockbook/master.key

	HTTPTimeout time.Duration `env:"STOCKBOOK_HTTP_TIMEOUT" envDefault:"30s"`

	RateLimitRequests int           `env:"STOCKBOOK_RATELIMIT_REQUESTS" envDefault:"100"` // 0 disables the limiter
	RateLimitWindow   time.Duration `env:"STOCKBOOK_RATELIMIT_WINDOW" envDefault:"1m"`
	RateLimitBurst    int           `env:"STOCKBOOK_RATELIMIT_BURST" envDefault:"20"`

	Env       string `env:"ENV" envDefault:"prod"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadConfig reads an optional .env from the working directory, then the
// process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	dir := filepath.Join(userConfigDir(), "stockbook")
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = filepath.Join(dir, "session.db")
	}
	if cfg.MasterKeyPath == "" {
		cfg.MasterKeyPath = filepath.Join(dir, "master.key")
	}
	cfg.SessionDriver = strings.ToLower(strings.TrimSpace(cfg.SessionDriver))

	return cfg, nil
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("STOCKBOOK_API_URL is required")
	}
	switch c.SessionDriver {
	case store.DriverSQLite, store.DriverRedis, store.DriverMemory:
	default:
		return fmt.Errorf("%w: %q", store.ErrUnknownDriver, c.SessionDriver)
	}
	if c.HTTPTimeout < 0 {
		return errors.New("STOCKBOOK_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// RateLimit returns the outbound limiter settings.
func (c Config) RateLimit() httpx.RateLimitConfig {
	return httpx.RateLimitConfig{
		RequestsPerWindow: c.RateLimitRequests,
		Window:            c.RateLimitWindow,
		Burst:             c.RateLimitBurst,
	}
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
