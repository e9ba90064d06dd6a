package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/stockbook/internal/stockbook/store"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	require.Empty(t, cfg.APIURL)
	require.Equal(t, store.DriverSQLite, cfg.SessionDriver)
	require.True(t, strings.HasSuffix(cfg.DatabaseFile, filepath.Join("stockbook", "session.db")), cfg.DatabaseFile)
	require.True(t, strings.HasSuffix(cfg.MasterKeyPath, filepath.Join("stockbook", "master.key")), cfg.MasterKeyPath)
	require.Equal(t, "stockbook", cfg.RedisPrefix)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)

	rl := cfg.RateLimit()
	require.True(t, rl.Enabled())
	require.Equal(t, 100, rl.RequestsPerWindow)
	require.Equal(t, time.Minute, rl.Window)
	require.Equal(t, 20, rl.Burst)

	require.ErrorContains(t, cfg.Validate(), "STOCKBOOK_API_URL")
}

func TestParseConfigOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"STOCKBOOK_API_URL":            "https://shop.example/api/",
		"STOCKBOOK_SESSION_DRIVER":     " Redis ",
		"STOCKBOOK_DATABASE_FILE":      "/tmp/s.db",
		"STOCKBOOK_REDIS_URL":          "redis://cache:6379/2",
		"STOCKBOOK_MASTER_KEY_PATH":    "/tmp/k",
		"STOCKBOOK_HTTP_TIMEOUT":       "5s",
		"STOCKBOOK_RATELIMIT_REQUESTS": "0",
		"LOG_LEVEL":                    "debug",
	}})
	require.NoError(t, err)

	require.Equal(t, store.DriverRedis, cfg.SessionDriver)
	require.Equal(t, "/tmp/s.db", cfg.DatabaseFile)
	require.Equal(t, "/tmp/k", cfg.MasterKeyPath)
	require.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.False(t, cfg.RateLimit().Enabled())
	require.NoError(t, cfg.Validate())
}

func TestParseConfigRejectsBadDuration(t *testing.T) {
	t.Parallel()

	_, err := parseConfig(env.Options{Environment: map[string]string{
		"STOCKBOOK_HTTP_TIMEOUT": "soon",
	}})
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{APIURL: "http://localhost:8000/api/", SessionDriver: store.DriverMemory}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api url", func(c *Config) { c.APIURL = " " }},
		{"unknown driver", func(c *Config) { c.SessionDriver = "etcd" }},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
