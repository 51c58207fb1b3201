// Package printers renders check results and session statistics.
package printers

import (
	"fmt"
	"time"

	"github.com/pouriyajamshidi/pingcheck/statistics"
)

// paint formats a segment of output, optionally wrapping it in a style.
type paint func(format string, args ...any) string

// palette names the styles used by the text printers.
type palette struct {
	start  paint
	check  paint
	title  paint
	good   paint
	bad    paint
	warn   paint
	notice paint
	stamp  paint
}

// textPrinter renders human readable output. ColorPrinter and
// PlainPrinter only differ in their palette.
type textPrinter struct {
	opt options
	p   palette
}

func (t *textPrinter) options() *options {
	return &t.opt
}

func (t *textPrinter) write(segments ...string) {
	for _, s := range segments {
		fmt.Fprint(t.opt.Writer, s)
	}
}

// PrintStart prints the message shown once before the first check.
func (t *textPrinter) PrintStart(s *statistics.Statistics) {
	if s.Kind == statistics.Port {
		t.write(t.p.start("Starting port %d check on %s...\n", s.Port, s.Target))
		return
	}
	t.write(t.p.start("Starting ping check of %s...\n", s.Target))
}

// PrintCheck prints the header of the n-th check.
func (t *textPrinter) PrintCheck(n uint, at time.Time) {
	t.write(t.p.check("\nCheck #%d | %s\n", n, at.Format(time.DateTime)))
}

// PrintResult prints the outcome of one check followed by its errors.
func (t *textPrinter) PrintResult(r statistics.Result) {
	switch v := r.(type) {
	case *statistics.PingResult:
		t.write(t.p.title("\nResults for %s\n", v.Target))
		t.write("  Status:         ", t.status(v.Available, "AVAILABLE", "UNAVAILABLE"), "\n")
		t.write(fmt.Sprintf("  Packet loss:    %.1f%%\n", v.PacketLoss))
		t.write(fmt.Sprintf("  Avg. response:  %.2f ms\n", v.AvgRTT))

	case *statistics.PortResult:
		t.write(t.p.title("\nPort check results for %s\n", v.Target))
		t.write("  Status:         ", t.status(v.Available, "OPEN", "CLOSED"), "\n")
		if v.Available {
			t.write(fmt.Sprintf("  Response time:  %.2f ms\n", v.ResponseTime))
		}

	default:
		t.write(t.p.title("\nResults for %s\n", r.Addr()))
		t.write("  Status:         ", t.status(r.IsAvailable(), "AVAILABLE", "UNAVAILABLE"), "\n")
	}

	if failures := r.Failures(); len(failures) > 0 {
		t.write(t.p.bad("\nErrors:\n"))
		for _, f := range failures {
			t.write(fmt.Sprintf("  - %s\n", f))
		}
	}
}

func (t *textPrinter) status(ok bool, up, down string) string {
	if ok {
		return t.p.good("%s", up)
	}
	return t.p.bad("%s", down)
}

// PrintTotalDownTime prints how long the target was unavailable before it came back.
func (t *textPrinter) PrintTotalDownTime(s *statistics.Statistics) {
	t.write(t.p.warn("No response received for %s\n", statistics.DurationToString(s.DownTime)))
}

// PrintNextCheck announces the pause before the next check.
func (t *textPrinter) PrintNextCheck(interval time.Duration) {
	t.write(t.p.notice("\nNext check in %s...\n", statistics.DurationToString(interval)))
}

// PrintStopped prints the notice shown when the user interrupts monitoring.
func (t *textPrinter) PrintStopped(_ *statistics.Statistics) {
	t.write(t.p.warn("\nCheck stopped by user.\n"))
}

// PrintInfo prints an informational message.
func (t *textPrinter) PrintInfo(format string, args ...any) {
	t.write(t.p.notice(format+"\n", args...))
}

// PrintError prints an error message.
func (t *textPrinter) PrintError(format string, args ...any) {
	t.write(t.p.bad(format+"\n", args...))
}

// PrintStatistics prints the session summary.
func (t *textPrinter) PrintStatistics(s *statistics.Statistics) {
	p := t.p

	target := s.Target
	if s.Kind == statistics.Port {
		target = fmt.Sprintf("%s port %d", s.Target, s.Port)
	}

	t.write(p.title("\n--- %s statistics ---\n", target))
	if s.Method != "" {
		t.write(p.title("method: %s\n", s.Method))
	}

	t.write(p.title("%d checks performed | %d available, ", s.Checks, s.Available))
	rate := s.FailureRate()
	switch {
	case rate == 0:
		t.write(p.good("%.2f%%", rate))
	case rate <= 30:
		t.write(p.warn("%.2f%%", rate))
	default:
		t.write(p.bad("%.2f%%", rate))
	}
	t.write(p.title(" unavailable\n"))

	t.write(p.title("last available check:   "))
	if s.LastAvailable.IsZero() {
		t.write(p.bad("Never available\n"))
	} else {
		t.write(p.good("%v\n", s.LastAvailable.Format(time.DateTime)))
	}

	t.write(p.title("last unavailable check: "))
	if s.LastUnavailable.IsZero() {
		t.write(p.good("Never unavailable\n"))
	} else {
		t.write(p.bad("%v\n", s.LastUnavailable.Format(time.DateTime)))
	}

	t.write(p.title("total uptime:   "), p.good("%s\n", statistics.DurationToString(s.TotalUptime)))
	t.write(p.title("total downtime: "), p.bad("%s\n", statistics.DurationToString(s.TotalDowntime)))

	if s.LongestUp.Duration != 0 {
		t.write(
			p.title("longest consecutive uptime:   "),
			p.good("%v ", statistics.DurationToString(s.LongestUp.Duration)),
			p.title("from "),
			p.stamp("%v ", s.LongestUp.Start.Format(time.DateTime)),
			p.title("to "),
			p.stamp("%v\n", s.LongestUp.End.Format(time.DateTime)),
		)
	}

	if s.LongestDown.Duration != 0 {
		t.write(
			p.title("longest consecutive downtime: "),
			p.bad("%v ", statistics.DurationToString(s.LongestDown.Duration)),
			p.title("from "),
			p.stamp("%v ", s.LongestDown.Start.Format(time.DateTime)),
			p.title("to "),
			p.stamp("%v\n", s.LongestDown.End.Format(time.DateTime)),
		)
	}

	if s.Latency.HasResults() {
		t.write(
			p.title("latency "),
			p.good("min"), p.title("/"), p.notice("avg"), p.title("/"), p.bad("max: "),
			p.good("%.3f", s.Latency.Min), p.title("/"),
			p.notice("%.3f", s.Latency.Average()), p.title("/"),
			p.bad("%.3f", s.Latency.Max), p.title(" ms\n"),
		)
	}

	t.write(p.title("--------------------------------------\n"))
	t.write(p.title("monitoring started at: %v\n", s.StartTimeFormatted()))
	if !s.EndTime.IsZero() {
		t.write(p.title("monitoring ended at:   %v\n", s.EndTimeFormatted()))
	}

	duration := time.Time{}.Add(s.Duration())
	t.write(p.title("duration (HH:MM:SS): %v\n\n", duration.Format(time.TimeOnly)))
}
