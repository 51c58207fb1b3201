// Package config loads monitoring settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Ping methods.
const (
	MethodShell = "shell"
	MethodICMP  = "icmp"
)

// Output formats.
const (
	OutputColor = "color"
	OutputPlain = "plain"
	OutputJSON  = "json"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the monitoring settings. Durations are whole seconds.
type Config struct {
	Count        int    `yaml:"count"`
	Timeout      int    `yaml:"timeout"`
	Interval     int    `yaml:"interval"`
	MaxChecks    int    `yaml:"max_checks"`
	PingMethod   string `yaml:"ping_method"`
	PingFormat   string `yaml:"ping_format"`
	Privileged   bool   `yaml:"privileged"`
	Output       string `yaml:"output"`
	Pretty       bool   `yaml:"pretty"`
	FailuresOnly bool   `yaml:"failures_only"`
	LogLevel     string `yaml:"log_level"`
	LogFile      string `yaml:"log_file"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Count:      4,
		Timeout:    2,
		Interval:   5,
		MaxChecks:  0,
		PingMethod: MethodShell,
		PingFormat: "auto",
		Output:     OutputColor,
		LogLevel:   "warn",
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Count < 1:
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidConfig, c.Count)
	case c.Timeout < 1:
		return fmt.Errorf("%w: timeout must be at least 1 second, got %d", ErrInvalidConfig, c.Timeout)
	case c.Interval < 1:
		return fmt.Errorf("%w: interval must be at least 1 second, got %d", ErrInvalidConfig, c.Interval)
	case c.MaxChecks < 0:
		return fmt.Errorf("%w: max_checks must not be negative, got %d", ErrInvalidConfig, c.MaxChecks)
	}

	switch c.PingMethod {
	case MethodShell, MethodICMP:
	default:
		return fmt.Errorf("%w: unknown ping_method %q", ErrInvalidConfig, c.PingMethod)
	}

	switch c.PingFormat {
	case "", "auto", "posix", "windows":
	default:
		return fmt.Errorf("%w: unknown ping_format %q", ErrInvalidConfig, c.PingFormat)
	}

	switch c.Output {
	case OutputColor, OutputPlain, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output %q", ErrInvalidConfig, c.Output)
	}

	if c.Pretty && c.Output != OutputJSON {
		return fmt.Errorf("%w: pretty requires json output", ErrInvalidConfig)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}

// TimeoutDuration returns the per-probe timeout.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// IntervalDuration returns the pause between checks.
func (c Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}
