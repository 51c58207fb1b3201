package printers

import (
	"io"
	"os"
)

// options contains common display options shared by all printers
type options struct {
	Writer io.Writer
}

func defaultOptions() options {
	return options{Writer: os.Stdout}
}

type hasOptions interface {
	options() *options
}

// WithWriter redirects printer output, stdout by default.
func WithWriter[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		if w != nil {
			p.options().Writer = w
		}
	}
}
