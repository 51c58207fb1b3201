// Package app wires the command line to the prober.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/pouriyajamshidi/pingcheck"
	"github.com/pouriyajamshidi/pingcheck/dns"
	"github.com/pouriyajamshidi/pingcheck/internal/config"
	"github.com/pouriyajamshidi/pingcheck/internal/logging"
	"github.com/pouriyajamshidi/pingcheck/pingers"
)

// Run executes the pingcheck application and returns an exit code
func Run() int {
	ctx := setupSignalHandler(context.Background())
	return Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Execute runs the command line with args and returns an exit code.
// Results go to stdout, startup errors to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// invalid targets were already reported through the printer
		if !errors.Is(err, dns.ErrInvalidTarget) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}

	return 0
}

func setupSignalHandler(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}

// monitor validates the target and runs checks until the context ends
// or the check limit is reached.
func monitor(ctx context.Context, target string, port uint16, cfg config.Config, stdout io.Writer) (err error) {
	logger, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeLog())
	}()

	printer, err := pingcheck.NewPrinter(pingcheck.PrinterConfig{
		OutputJSON: cfg.Output == config.OutputJSON,
		PrettyJSON: cfg.Pretty,
		NoColor:    cfg.Output == config.OutputPlain,
		Writer:     stdout,
	})
	if err != nil {
		return err
	}

	resolver := dns.NewResolver(dns.WithTimeout(cfg.TimeoutDuration()))
	kind, err := resolver.Validate(ctx, target)
	if err != nil {
		logger.Debug("target rejected", zap.String("target", target), zap.Error(err))
		printer.PrintError("'%s' is not a valid IP address or hostname", target)
		return err
	}

	logger.Debug("target validated",
		zap.String("target", target),
		zap.Stringer("kind", kind))

	pinger, err := buildPinger(target, port, cfg, logger, runtime.GOOS)
	if err != nil {
		return err
	}

	opts := []pingcheck.ProberOption{
		pingcheck.WithPrinter(printer),
		pingcheck.WithInterval(cfg.IntervalDuration()),
		pingcheck.WithMaxChecks(uint(cfg.MaxChecks)),
		pingcheck.WithLogger(logger),
	}
	if cfg.FailuresOnly {
		opts = append(opts, pingcheck.WithFailuresOnly())
	}

	prober := pingcheck.NewProber(pinger, opts...)

	stats, err := prober.Probe(ctx)
	if err != nil {
		return err
	}

	printer.PrintStatistics(&stats)

	return nil
}

// buildPinger selects the probe for the whole run: a TCP connect when a
// port is given, otherwise a ping through the system utility or raw ICMP.
func buildPinger(target string, port uint16, cfg config.Config, logger *zap.Logger, goos string) (pingcheck.Pinger, error) {
	if port != 0 {
		return pingers.NewTCPPinger(target, port,
			pingers.WithTimeout[*pingers.TCPPinger](cfg.TimeoutDuration()),
			pingers.WithLogger[*pingers.TCPPinger](logger),
		), nil
	}

	if cfg.PingMethod == config.MethodICMP {
		return pingers.NewICMPPinger(target,
			pingers.WithPrivileged(cfg.Privileged),
			pingers.WithResolver(dns.NewResolver(dns.WithIPv4Only(), dns.WithTimeout(cfg.TimeoutDuration()))),
			pingers.WithCount[*pingers.ICMPPinger](cfg.Count),
			pingers.WithTimeout[*pingers.ICMPPinger](cfg.TimeoutDuration()),
			pingers.WithLogger[*pingers.ICMPPinger](logger),
		), nil
	}

	platform, err := pingers.ParsePlatform(cfg.PingFormat, goos)
	if err != nil {
		return nil, err
	}

	return pingers.NewShellPinger(target,
		pingers.WithPlatform(platform),
		pingers.WithCount[*pingers.ShellPinger](cfg.Count),
		pingers.WithTimeout[*pingers.ShellPinger](cfg.TimeoutDuration()),
		pingers.WithLogger[*pingers.ShellPinger](logger),
	), nil
}
