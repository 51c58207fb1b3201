package pingcheck

import (
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/pouriyajamshidi/pingcheck/printers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
	_ Printer = (*printers.JSONPrinter)(nil)
)

// ErrPrettyWithoutJSON is returned by NewPrinter when pretty output is
// requested for a text printer.
var ErrPrettyWithoutJSON = errors.New("--pretty has no effect without the --json flag")

// Printer defines a set of methods that any printer implementation must provide.
// Printers are responsible for outputting information, but should not modify data or perform calculations.
type Printer interface {
	// PrintStart prints the first message to indicate the target.
	// This message is printed only once, at the very beginning.
	PrintStart(s *statistics.Statistics)

	// PrintCheck prints the header of check number n started at the given time.
	PrintCheck(n uint, at time.Time)

	// PrintResult prints the outcome of one check including its errors.
	PrintResult(r statistics.Result)

	// PrintTotalDownTime should print a downtime duration.
	//
	// This is being called when host was unavailable for some time
	// but the latest check was successful.
	PrintTotalDownTime(s *statistics.Statistics)

	// PrintNextCheck announces the pause before the next check.
	PrintNextCheck(interval time.Duration)

	// PrintStopped prints the notice shown when monitoring was interrupted.
	PrintStopped(s *statistics.Statistics)

	// PrintStatistics should print a message with
	// helpful statistics information.
	//
	// This is being called on exit.
	PrintStatistics(s *statistics.Statistics)

	// PrintInfo prints a standalone informational message,
	// such as the version or the result of an update check.
	PrintInfo(format string, args ...any)

	// PrintError should print an error message.
	// Printer should also apply \n to the given string, if needed.
	PrintError(format string, args ...any)
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	OutputJSON bool
	PrettyJSON bool
	NoColor    bool
	// Writer defaults to stdout.
	Writer io.Writer
}

// NewPrinter creates and returns an appropriate printer based on configuration.
// Colors are only used when the output is a terminal.
func NewPrinter(cfg PrinterConfig) (Printer, error) {
	if cfg.PrettyJSON && !cfg.OutputJSON {
		return nil, ErrPrettyWithoutJSON
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	switch {
	case cfg.OutputJSON:
		opts := []printers.JSONPrinterOption{printers.WithWriter[*printers.JSONPrinter](w)}
		if cfg.PrettyJSON {
			opts = append(opts, printers.WithPrettyJSON())
		}
		return printers.NewJSONPrinter(opts...), nil

	case cfg.NoColor || !isTerminal(w):
		return printers.NewPlainPrinter(printers.WithWriter[*printers.PlainPrinter](w)), nil

	default:
		return printers.NewColorPrinter(printers.WithWriter[*printers.ColorPrinter](w)), nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
