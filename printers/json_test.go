package printers_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouriyajamshidi/pingcheck/internal/testdata"
	"github.com/pouriyajamshidi/pingcheck/printers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

func newJSON(opts ...printers.JSONPrinterOption) (*printers.JSONPrinter, *bytes.Buffer) {
	var buf bytes.Buffer
	opts = append([]printers.JSONPrinterOption{printers.WithWriter[*printers.JSONPrinter](&buf)}, opts...)
	return printers.NewJSONPrinter(opts...), &buf
}

func decodeOne(t *testing.T, buf *bytes.Buffer) printers.JSONData {
	t.Helper()

	events := testdata.DecodeJSONEvents(t, buf.Bytes())
	require.Len(t, events, 1)
	return events[0]
}

func TestJSONPrinter_PrintStart(t *testing.T) {
	p, buf := newJSON()
	p.PrintStart(&statistics.Statistics{Target: testdata.TestHostname, Kind: statistics.Port, Port: 443})

	data := decodeOne(t, buf)
	assert.Equal(t, printers.StartEvent, data.Type)
	assert.Equal(t, "example.com", data.Target)
	assert.Equal(t, "port", data.Kind)
	assert.Equal(t, uint16(443), data.Port)
	assert.Equal(t, "Starting port 443 check on example.com", data.Message)
}

func TestJSONPrinter_PrintCheck(t *testing.T) {
	p, buf := newJSON()
	p.PrintCheck(2, testdata.TestTimestamp)

	data := decodeOne(t, buf)
	assert.Equal(t, printers.CheckEvent, data.Type)
	assert.Equal(t, uint(2), data.Check)
	assert.Equal(t, "2024-01-15 10:30:45", data.Timestamp)
}

func TestJSONPrinter_PrintResult(t *testing.T) {
	tests := []struct {
		name             string
		result           statistics.Result
		wantAvailable    bool
		wantLoss         *float64
		wantAvg          *float64
		wantResponseTime *float64
		wantErrors       []string
	}{
		{
			name:          "reachable ping",
			result:        testdata.ReachablePing(),
			wantAvailable: true,
			wantLoss:      testdata.ToPtr(0.0),
			wantAvg:       testdata.ToPtr(2.5),
		},
		{
			name:          "unreachable ping keeps defaults",
			result:        testdata.UnreachablePing(),
			wantAvailable: false,
			wantLoss:      testdata.ToPtr(100.0),
			wantAvg:       testdata.ToPtr(0.0),
			wantErrors:    []string{"ping timed out after 10s"},
		},
		{
			name:             "open port",
			result:           testdata.OpenPort(),
			wantAvailable:    true,
			wantResponseTime: testdata.ToPtr(12.5),
		},
		{
			name:          "closed port",
			result:        testdata.ClosedPort(),
			wantAvailable: false,
			wantErrors:    []string{"connection refused on port 443"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newJSON()
			p.PrintResult(tt.result)

			data := decodeOne(t, buf)
			assert.Equal(t, printers.ResultEvent, data.Type)
			assert.Equal(t, tt.result.Addr(), data.Target)
			require.NotNil(t, data.Available, "available must be present even when false")
			assert.Equal(t, tt.wantAvailable, *data.Available)
			assert.Equal(t, tt.wantLoss, data.PacketLoss)
			assert.Equal(t, tt.wantAvg, data.AvgResponse)
			assert.Equal(t, tt.wantResponseTime, data.ResponseTime)
			assert.Equal(t, tt.wantErrors, data.Errors)
		})
	}
}

func TestJSONPrinter_Notices(t *testing.T) {
	p, buf := newJSON()

	p.PrintNextCheck(5 * time.Second)
	p.PrintTotalDownTime(&statistics.Statistics{Target: "8.8.8.8", DownTime: 30 * time.Second})
	p.PrintStopped(&statistics.Statistics{Target: "8.8.8.8"})
	p.PrintInfo("pingcheck version %s", "1.2.0")
	p.PrintError("something went %s", "wrong")

	events := testdata.DecodeJSONEvents(t, buf.Bytes())
	require.Len(t, events, 5)

	assert.Equal(t, printers.NextCheckEvent, events[0].Type)
	assert.Equal(t, 5.0, events[0].Interval)

	assert.Equal(t, printers.RecoveredEvent, events[1].Type)
	assert.Equal(t, 30.0, events[1].Downtime)

	assert.Equal(t, printers.StoppedEvent, events[2].Type)
	assert.Equal(t, "Check stopped by user.", events[2].Message)
	assert.True(t, events[2].StoppedByUser)

	assert.Equal(t, printers.InfoEvent, events[3].Type)
	assert.Equal(t, "pingcheck version 1.2.0", events[3].Message)

	assert.Equal(t, printers.ErrorEvent, events[4].Type)
	assert.Equal(t, "something went wrong", events[4].Message)
}

func TestJSONPrinter_PrintStatistics(t *testing.T) {
	p, buf := newJSON()
	p.PrintStatistics(testdata.SessionStatistics())

	data := decodeOne(t, buf)
	assert.Equal(t, printers.StatisticsEvent, data.Type)
	assert.Equal(t, uint(3), data.TotalChecks)
	assert.Equal(t, uint(2), data.TotalAvailable)
	assert.Equal(t, uint(1), data.TotalUnavailable)
	assert.Equal(t, "33.33", data.FailureRate)
	assert.Equal(t, 70.0, data.TotalUptime)
	assert.Equal(t, 30.0, data.TotalDowntime)
	assert.Equal(t, "60", data.LongestUptime)
	assert.Equal(t, "30", data.LongestDowntime)
	assert.Equal(t, "12.500", data.LatencyAvg)
	assert.Equal(t, "100", data.TotalDuration)
	assert.Equal(t, "2024-01-15 10:30:45", data.StartTimestamp)
	assert.Equal(t, "2024-01-15 10:32:25", data.EndTimestamp)
}

func TestJSONPrinter_Pretty(t *testing.T) {
	p, buf := newJSON(printers.WithPrettyJSON())
	p.PrintError("boom")

	assert.True(t, strings.Contains(buf.String(), "\n\t\"type\": \"error\""))
}
