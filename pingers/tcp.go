// Package pingers implements the probes: TCP connect, system ping and native ICMP echo.
package pingers

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pouriyajamshidi/pingcheck/option"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

// TCPPinger checks whether a TCP port accepts connections.
type TCPPinger struct {
	dialer *net.Dialer
	host   string
	port   uint16
	opt    options
}

type TCPOption = option.Option[TCPPinger]

func (t *TCPPinger) options() *options {
	return &t.opt
}

const tcp = "tcp"

// NewTCPPinger creates a new TCP pinger for the specified host and port with optional configuration.
func NewTCPPinger(host string, port uint16, opts ...TCPOption) *TCPPinger {
	t := &TCPPinger{
		host:   host,
		port:   port,
		dialer: &net.Dialer{},
		opt:    defaultOptions(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithDialer configures a custom net.Dialer for TCP connections.
func WithDialer(dialer *net.Dialer) TCPOption {
	return func(t *TCPPinger) {
		t.dialer = dialer
	}
}

// Kind implements Pinger.
func (t *TCPPinger) Kind() statistics.Kind {
	return statistics.Port
}

// Target implements Pinger.
func (t *TCPPinger) Target() string {
	return t.host
}

// Port implements Pinger.
func (t *TCPPinger) Port() uint16 {
	return t.port
}

// Ping implements Pinger. It opens a connection, records the time it took
// and closes it right away without exchanging data.
func (t *TCPPinger) Ping(ctx context.Context) statistics.Result {
	result := statistics.NewPortResult(t.host, t.port)

	ctx, cancel := context.WithTimeout(ctx, t.opt.timeout)
	defer cancel()

	start := time.Now()
	conn, err := t.dialer.DialContext(ctx, tcp, result.Target)
	elapsed := time.Since(start)

	if err != nil {
		t.opt.logger.Debug("tcp connect failed",
			zap.String("address", result.Target),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		t.describeFailure(result, err)
		return result
	}
	conn.Close()

	result.Available = true
	result.ResponseTime = statistics.Milliseconds(elapsed)

	t.opt.logger.Debug("tcp connect succeeded",
		zap.String("address", result.Target),
		zap.Duration("elapsed", elapsed))

	return result
}

func (t *TCPPinger) describeFailure(result *statistics.PortResult, err error) {
	var netErr net.Error

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		result.AddError("connection refused on port %d", t.port)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		result.AddError("connection to port %d timed out after %s", t.port, t.opt.timeout)
	case errors.Is(err, context.Canceled):
		result.AddError("port check cancelled")
	default:
		result.AddError("port check failed: %v", err)
	}
}
