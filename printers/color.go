package printers

import (
	"github.com/gookit/color"

	"github.com/pouriyajamshidi/pingcheck/option"
)

// Color functions used when printing information
var colorPalette = palette{
	start:  color.LightCyan.Sprintf,
	check:  color.Magenta.Sprintf,
	title:  color.Yellow.Sprintf,
	good:   color.Green.Sprintf,
	bad:    color.Red.Sprintf,
	warn:   color.LightYellow.Sprintf,
	notice: color.Cyan.Sprintf,
	stamp:  color.FgLightBlue.Sprintf,
}

// ColorPrinter prints results with ANSI colors.
type ColorPrinter struct {
	textPrinter
}

type ColorOption = option.Option[ColorPrinter]

// NewColorPrinter creates a new ColorPrinter writing to stdout unless configured otherwise.
func NewColorPrinter(opts ...ColorOption) *ColorPrinter {
	p := &ColorPrinter{textPrinter{opt: defaultOptions(), p: colorPalette}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
