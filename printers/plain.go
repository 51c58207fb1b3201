package printers

import (
	"fmt"

	"github.com/pouriyajamshidi/pingcheck/option"
)

var plainPalette = palette{
	start:  fmt.Sprintf,
	check:  fmt.Sprintf,
	title:  fmt.Sprintf,
	good:   fmt.Sprintf,
	bad:    fmt.Sprintf,
	warn:   fmt.Sprintf,
	notice: fmt.Sprintf,
	stamp:  fmt.Sprintf,
}

// PlainPrinter prints the same text as ColorPrinter without any styling.
type PlainPrinter struct {
	textPrinter
}

type PlainOption = option.Option[PlainPrinter]

// NewPlainPrinter creates a new PlainPrinter writing to stdout unless configured otherwise.
func NewPlainPrinter(opts ...PlainOption) *PlainPrinter {
	p := &PlainPrinter{textPrinter{opt: defaultOptions(), p: plainPalette}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
