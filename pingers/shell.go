package pingers

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/pouriyajamshidi/pingcheck/option"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

const (
	defaultPingBinary = "ping"

	// deadlineGrace is added on top of count*timeout before the ping
	// process is killed.
	deadlineGrace = 2 * time.Second

	// exit status of ping when no reply was received; anything above
	// means ping itself failed.
	exitNoReply = 1
)

// ShellPinger runs the system ping utility and reads its report.
type ShellPinger struct {
	target   string
	binary   string
	platform Platform
	opt      options
}

type ShellOption = option.Option[ShellPinger]

func (p *ShellPinger) options() *options {
	return &p.opt
}

// NewShellPinger creates a pinger for target. Without options it sends
// four echo requests using the POSIX dialect.
func NewShellPinger(target string, opts ...ShellOption) *ShellPinger {
	p := &ShellPinger{
		target:   target,
		binary:   defaultPingBinary,
		platform: POSIX,
		opt:      defaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithPlatform selects the command line and output dialect.
func WithPlatform(platform Platform) ShellOption {
	return func(p *ShellPinger) {
		if platform != nil {
			p.platform = platform
		}
	}
}

// WithBinary overrides the ping executable.
func WithBinary(binary string) ShellOption {
	return func(p *ShellPinger) {
		p.binary = binary
	}
}

// Kind implements Pinger.
func (p *ShellPinger) Kind() statistics.Kind {
	return statistics.Ping
}

// Target implements Pinger.
func (p *ShellPinger) Target() string {
	return p.target
}

// Port implements Pinger. Ping probes have no port.
func (p *ShellPinger) Port() uint16 {
	return 0
}

// Platform returns the ping dialect in use.
func (p *ShellPinger) Platform() Platform {
	return p.platform
}

// Deadline is the wall-clock bound of a single probe.
func (p *ShellPinger) Deadline() time.Duration {
	return p.opt.timeout*time.Duration(p.opt.count) + deadlineGrace
}

// Ping implements Pinger. Failures never escape as errors; they are
// recorded on the returned result instead.
func (p *ShellPinger) Ping(ctx context.Context) statistics.Result {
	result := statistics.NewPingResult(p.target)

	deadline := p.Deadline()
	pctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	args := p.platform.Args(p.target, p.opt.count, p.opt.timeout)

	var output bytes.Buffer
	cmd := exec.CommandContext(pctx, p.binary, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = time.Second

	p.opt.logger.Debug("running ping",
		zap.String("binary", p.binary),
		zap.Strings("args", args),
		zap.String("platform", p.platform.Name()),
		zap.Duration("deadline", deadline))

	start := time.Now()
	err := cmd.Run()

	p.opt.logger.Debug("ping finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	switch {
	case ctx.Err() != nil:
		result.AddError("ping cancelled")
		return result
	case errors.Is(pctx.Err(), context.DeadlineExceeded):
		result.PacketLoss = statistics.UnknownPacketLoss
		result.AddError("ping timed out after %s", deadline)
		return result
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		result.AddError("ping execution failed: %v", err)
		return result
	}

	result.Available = err == nil

	if exitErr != nil && exitErr.ExitCode() > exitNoReply {
		result.AddError("ping exited with status %d: %s", exitErr.ExitCode(), firstLine(output.Bytes()))
	}

	summary, err := p.platform.Parse(output.String())
	if summary.HasPacketLoss {
		result.PacketLoss = summary.PacketLoss
	}
	if summary.HasAvgRTT {
		result.AvgRTT = summary.AvgRTT
	}
	if err != nil {
		result.AddError("parse ping output: %v", err)
	}

	return result
}

func firstLine(b []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(b), []byte("\n"))
	return string(bytes.TrimSpace(line))
}
