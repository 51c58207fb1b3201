package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouriyajamshidi/pingcheck/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pingcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 4, cfg.Count)
	assert.Equal(t, 2*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.IntervalDuration())
	assert.Zero(t, cfg.MaxChecks)
	assert.Equal(t, config.MethodShell, cfg.PingMethod)
	assert.Equal(t, config.OutputColor, cfg.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathAndMissingFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
count: 2
interval: 10
max_checks: 3
ping_method: icmp
privileged: true
output: json
pretty: true
log_level: debug
log_file: /tmp/pingcheck.log
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Count)
	assert.Equal(t, 2, cfg.Timeout, "unset keys keep their defaults")
	assert.Equal(t, 10*time.Second, cfg.IntervalDuration())
	assert.Equal(t, 3, cfg.MaxChecks)
	assert.Equal(t, config.MethodICMP, cfg.PingMethod)
	assert.True(t, cfg.Privileged)
	assert.Equal(t, config.OutputJSON, cfg.Output)
	assert.True(t, cfg.Pretty)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/pingcheck.log", cfg.LogFile)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "count: [1, 2"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := config.Load(writeConfig(t, "interval: 0\n"))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{name: "zero count", modify: func(c *config.Config) { c.Count = 0 }},
		{name: "zero timeout", modify: func(c *config.Config) { c.Timeout = 0 }},
		{name: "negative interval", modify: func(c *config.Config) { c.Interval = -1 }},
		{name: "negative max checks", modify: func(c *config.Config) { c.MaxChecks = -1 }},
		{name: "unknown method", modify: func(c *config.Config) { c.PingMethod = "raw" }},
		{name: "unknown format", modify: func(c *config.Config) { c.PingFormat = "plan9" }},
		{name: "unknown output", modify: func(c *config.Config) { c.Output = "csv" }},
		{name: "pretty without json", modify: func(c *config.Config) { c.Pretty = true }},
		{name: "unknown log level", modify: func(c *config.Config) { c.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}
