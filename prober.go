package pingcheck

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pouriyajamshidi/pingcheck/option"
	"github.com/pouriyajamshidi/pingcheck/printers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

// ErrNoPinger is returned by Probe when the prober has nothing to run.
var ErrNoPinger = errors.New("no pinger configured")

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Prober runs one pinger over and over, printing every result,
// until it is cancelled or the check limit is reached.
type Prober struct {
	pinger  Pinger
	printer Printer
	logger  *zap.Logger
	sleep   SleepFunc
	// failuresOnly hides every cycle whose result is available.
	failuresOnly bool
	Interval     time.Duration
	MaxChecks    uint
	Statistics   statistics.Statistics
}

type ProberOption = option.Option[Prober]

// WithInterval configures the pause between two checks.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.Interval = interval
	}
}

// WithPrinter configures the printer for check output formatting.
func WithPrinter(printer Printer) ProberOption {
	return func(p *Prober) {
		p.printer = printer
	}
}

// WithMaxChecks configures the maximum number of checks before stopping.
// If set to 0, checking continues until cancelled.
func WithMaxChecks(count uint) ProberOption {
	return func(p *Prober) {
		p.MaxChecks = count
	}
}

// WithFailuresOnly hides the header, result and next check notice of
// cycles that found the target available. Statistics still count them.
func WithFailuresOnly() ProberOption {
	return func(p *Prober) {
		p.failuresOnly = true
	}
}

// WithLogger configures the logger used for debug output.
func WithLogger(logger *zap.Logger) ProberOption {
	return func(p *Prober) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSleep replaces the wait between checks.
func WithSleep(sleep SleepFunc) ProberOption {
	return func(p *Prober) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewProber creates a new prober with the given pinger and optional configuration.
func NewProber(p Pinger, opts ...ProberOption) *Prober {
	pr := Prober{
		pinger:   p,
		printer:  printers.NewColorPrinter(),
		logger:   zap.NewNop(),
		sleep:    sleepContext,
		Interval: DefaultInterval,
	}

	if p != nil {
		pr.Statistics.Target = p.Target()
		pr.Statistics.Kind = p.Kind()
		pr.Statistics.Port = p.Port()
		pr.Statistics.Method = method(p)
	}

	for _, opt := range opts {
		opt(&pr)
	}
	return &pr
}

const DefaultInterval = 5 * time.Second

// Probe runs checks until ctx is cancelled or MaxChecks checks were done.
// Cancellation is a regular way to stop and does not produce an error.
// A check interrupted by cancellation is neither printed nor counted.
func (p *Prober) Probe(ctx context.Context) (statistics.Statistics, error) {
	if p.pinger == nil {
		return p.Statistics, ErrNoPinger
	}

	p.Statistics.StartTime = time.Now()
	p.printer.PrintStart(&p.Statistics)

	for {
		if ctx.Err() != nil {
			return p.stop(), nil
		}

		n := p.Statistics.Checks + 1
		at := time.Now()
		if !p.failuresOnly {
			p.printer.PrintCheck(n, at)
		}

		p.logger.Debug("check started",
			zap.Uint("check", n),
			zap.String("target", p.Statistics.Target),
			zap.String("method", p.Statistics.Method))

		result := p.pinger.Ping(ctx)

		if ctx.Err() != nil {
			p.logger.Debug("check interrupted, discarding result", zap.Uint("check", n))
			return p.stop(), nil
		}

		hidden := p.failuresOnly && result.IsAvailable()
		if p.failuresOnly && !hidden {
			p.printer.PrintCheck(n, at)
		}
		if !hidden {
			p.printer.PrintResult(result)
		}

		if recovered := p.Statistics.Record(result, at); recovered {
			p.printer.PrintTotalDownTime(&p.Statistics)
		}

		p.logger.Debug("check finished",
			zap.Uint("check", n),
			zap.Bool("available", result.IsAvailable()),
			zap.Strings("errors", result.Failures()))

		if p.MaxChecks > 0 && p.Statistics.Checks >= p.MaxChecks {
			p.Statistics.Finalize(time.Now())
			return p.Statistics, nil
		}

		if !hidden {
			p.printer.PrintNextCheck(p.Interval)
		}

		if err := p.sleep(ctx, p.Interval); err != nil {
			return p.stop(), nil
		}
	}
}

func (p *Prober) stop() statistics.Statistics {
	p.Statistics.StoppedByUser = true
	p.Statistics.Finalize(time.Now())
	p.printer.PrintStopped(&p.Statistics)
	return p.Statistics
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
