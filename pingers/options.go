package pingers

import (
	"time"

	"go.uber.org/zap"
)

// options contains settings shared by all pingers
type options struct {
	timeout time.Duration
	count   int
	logger  *zap.Logger
}

func defaultOptions() options {
	return options{
		timeout: DefaultTimeout,
		count:   DefaultCount,
		logger:  zap.NewNop(),
	}
}

type hasOptions interface {
	options() *options
}

const (
	// DefaultTimeout is the per-probe timeout used when none is configured.
	DefaultTimeout = 2 * time.Second
	// DefaultCount is the number of echo requests sent per ping probe.
	DefaultCount = 4
)

// WithTimeout configures the per-probe timeout.
// For ping probes it is the wait per echo request.
func WithTimeout[T hasOptions](timeout time.Duration) func(T) {
	return func(p T) {
		if timeout > 0 {
			p.options().timeout = timeout
		}
	}
}

// WithCount sets the number of echo requests per ping probe.
// TCP probes ignore it.
func WithCount[T hasOptions](count int) func(T) {
	return func(p T) {
		if count > 0 {
			p.options().count = count
		}
	}
}

// WithLogger configures the logger used for debug output.
func WithLogger[T hasOptions](logger *zap.Logger) func(T) {
	return func(p T) {
		if logger != nil {
			p.options().logger = logger
		}
	}
}
