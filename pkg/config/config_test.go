package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, ":4000", cfg.Signal.Address)
	assert.Equal(t, 6, cfg.Session.CodeLength)
	assert.Equal(t, time.Duration(0), cfg.Session.IdleTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  address: ":8080"
session:
  code_length: 8
  idle_ttl: 5m
  sweep_interval: 30s
redis:
  enabled: true
  address: "redis:6379"
  pool_size: 20
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 8, cfg.Session.CodeLength)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 20, cfg.Redis.PoolSize)

	// Fields the file omits keep their defaults.
	assert.Equal(t, ":4000", cfg.Signal.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MEETLIVE_SERVER_ADDRESS", ":9999")
	t.Setenv("MEETLIVE_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty server address", func(c *Config) { c.Server.Address = "" }, true},
		{"zero ping interval", func(c *Config) { c.Signal.PingInterval = 0 }, true},
		{"code length too short", func(c *Config) { c.Session.CodeLength = 3 }, true},
		{"code length too long", func(c *Config) { c.Session.CodeLength = 33 }, true},
		{"negative idle ttl", func(c *Config) { c.Session.IdleTTL = -time.Second }, true},
		{"idle ttl without sweep interval", func(c *Config) {
			c.Session.IdleTTL = time.Minute
			c.Session.SweepInterval = 0
		}, true},
		{"redis enabled without address", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Address = ""
		}, true},
		{"tracing sample rate out of range", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.SampleRate = 1.5
		}, true},
		{"rate limiting enabled without rps", func(c *Config) {
			c.RateLimiting.Enabled = true
			c.RateLimiting.HTTP.RequestsPerSecond = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
