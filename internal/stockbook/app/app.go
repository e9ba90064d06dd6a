package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/store"
	"github.com/aussiebroadwan/stockbook/pkg/cryptox"
	"github.com/aussiebroadwan/stockbook/pkg/httpx"
	"github.com/aussiebroadwan/stockbook/pkg/slogx"
	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the session store and API client behind the command
// line.
type Application struct {
	cfg    Config
	logger *slog.Logger

	sessions store.SessionStore
	client   *stocksdk.Client

	in    io.Reader
	lines *bufio.Reader
	out   io.Writer
}

// Option customises an Application.
type Option func(*Application)

// WithOutput redirects command output. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Application) { a.out = w }
}

// WithInput sets where prompts read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(a *Application) { a.in = r }
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// New opens the session store and builds the API client.
func New(ctx context.Context, cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.lines = bufio.NewReader(app.in)
	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "stockbook",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	if err := app.initSessions(ctx); err != nil {
		return nil, err
	}

	client, err := stocksdk.NewClient(cfg.APIURL, app.sessions,
		stocksdk.WithLogger(app.logger),
		stocksdk.WithTimeout(cfg.HTTPTimeout),
		stocksdk.WithUserAgent("stockbook/"+BuildVersion),
		stocksdk.WithMiddleware(httpx.RateLimit(cfg.RateLimit())),
	)
	if err != nil {
		_ = app.sessions.Close()
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	app.client = client

	return app, nil
}

// Close releases the session store.
func (app *Application) Close() error {
	if err := app.sessions.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		return err
	}
	return nil
}

// Client exposes the configured API client.
func (app *Application) Client() *stocksdk.Client {
	return app.client
}

// initSessions opens the configured session driver. Persistent drivers seal
// tokens with a key kept next to the database by default.
func (app *Application) initSessions(ctx context.Context) error {
	storeCfg := store.Config{
		Driver:       app.cfg.SessionDriver,
		DatabaseFile: app.cfg.DatabaseFile,
		RedisURL:     app.cfg.RedisURL,
		RedisPrefix:  app.cfg.RedisPrefix,
	}

	if app.cfg.SessionDriver != store.DriverMemory {
		material, err := cryptox.LoadOrCreateKey(app.cfg.MasterKeyPath)
		if err != nil {
			return err
		}
		sealer, err := cryptox.NewSealer(material)
		if err != nil {
			return fmt.Errorf("failed to initialize token sealer: %w", err)
		}
		storeCfg.Sealer = sealer
	}

	if app.cfg.SessionDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(app.cfg.DatabaseFile), 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	sessions, err := store.Open(ctx, storeCfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	app.sessions = sessions

	app.logger.Debug("session store ready", "driver", app.cfg.SessionDriver)
	return nil
}
