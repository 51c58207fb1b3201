// Package logging builds the zap logger used for diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File switches to JSON logs in a rotated file.
	File string
	// Console receives console logs when File is empty, stderr by default.
	Console io.Writer
}

// CloseFunc flushes and releases the log sink.
type CloseFunc func() error

// New returns a logger writing human readable lines to the console, or
// JSON lines to a rotated file when a file is configured.
func New(opts Options) (*zap.Logger, CloseFunc, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}

		sink := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}

		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(sink), level)
		logger := zap.New(core)

		return logger, func() error {
			return multierr.Combine(logger.Sync(), sink.Close())
		}, nil
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(console), level)

	// Sync on a terminal fails with EINVAL on Linux
	return zap.New(core), func() error { return nil }, nil
}
