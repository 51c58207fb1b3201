package printers_test

import (
	"bytes"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"

	"github.com/pouriyajamshidi/pingcheck/internal/testdata"
	"github.com/pouriyajamshidi/pingcheck/printers"
)

func TestColorPrinter_MatchesPlainWithoutColor(t *testing.T) {
	color.Disable()
	t.Cleanup(func() { color.Enable = true })

	var colored, plain bytes.Buffer
	cp := printers.NewColorPrinter(printers.WithWriter[*printers.ColorPrinter](&colored))
	pp := printers.NewPlainPrinter(printers.WithWriter[*printers.PlainPrinter](&plain))

	stats := testdata.SessionStatistics()

	cp.PrintStart(stats)
	pp.PrintStart(stats)
	cp.PrintCheck(1, testdata.TestTimestamp)
	pp.PrintCheck(1, testdata.TestTimestamp)
	cp.PrintResult(testdata.ClosedPort())
	pp.PrintResult(testdata.ClosedPort())
	cp.PrintResult(testdata.ReachablePing())
	pp.PrintResult(testdata.ReachablePing())
	cp.PrintStatistics(stats)
	pp.PrintStatistics(stats)

	assert.Equal(t, plain.String(), colored.String())
}

func TestColorPrinter_StatusWords(t *testing.T) {
	color.Disable()
	t.Cleanup(func() { color.Enable = true })

	var buf bytes.Buffer
	p := printers.NewColorPrinter(printers.WithWriter[*printers.ColorPrinter](&buf))

	p.PrintResult(testdata.OpenPort())
	p.PrintResult(testdata.UnreachablePing())

	output := buf.String()
	assert.Contains(t, output, "Status:         OPEN")
	assert.Contains(t, output, "Status:         UNAVAILABLE")
	assert.Contains(t, output, "  - ping timed out after 10s")
}
