// Package testdata provides shared test helpers and fixtures.
package testdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/pouriyajamshidi/pingcheck/printers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

// Common test fixture values
const (
	TestHostname = "example.com"
	TestIP       = "192.168.1.1"
	TestPort     = uint16(443)
)

var TestTimestamp = time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)

// ToPtr returns a pointer to the provided value.
func ToPtr[T any](v T) *T {
	return &v
}

// ReachablePing is a ping result without loss.
func ReachablePing() *statistics.PingResult {
	return &statistics.PingResult{Target: TestIP, Available: true, PacketLoss: 0, AvgRTT: 2.5}
}

// UnreachablePing is a timed out ping result.
func UnreachablePing() *statistics.PingResult {
	r := statistics.NewPingResult(TestIP)
	r.AddError("ping timed out after 10s")
	return r
}

// OpenPort is a successful port check result.
func OpenPort() *statistics.PortResult {
	r := statistics.NewPortResult(TestHostname, TestPort)
	r.Available = true
	r.ResponseTime = 12.5
	return r
}

// ClosedPort is a refused port check result.
func ClosedPort() *statistics.PortResult {
	r := statistics.NewPortResult(TestHostname, TestPort)
	r.AddError("connection refused on port %d", TestPort)
	return r
}

// SessionStatistics is a finished session with one outage.
func SessionStatistics() *statistics.Statistics {
	s := &statistics.Statistics{
		Target:    TestHostname,
		Kind:      statistics.Port,
		Port:      TestPort,
		Method:    "tcp connect",
		StartTime: TestTimestamp,
	}

	s.Record(OpenPort(), TestTimestamp)
	s.Record(ClosedPort(), TestTimestamp.Add(10*time.Second))
	s.Record(OpenPort(), TestTimestamp.Add(40*time.Second))
	s.Finalize(TestTimestamp.Add(100 * time.Second))

	return s
}

// DecodeJSONEvents parses newline separated JSON events.
func DecodeJSONEvents(t *testing.T, output []byte) []printers.JSONData {
	t.Helper()

	var events []printers.JSONData
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var data printers.JSONData
		if err := json.Unmarshal(line, &data); err != nil {
			t.Fatalf("failed to parse JSON event %q: %v", line, err)
		}
		events = append(events, data)
	}

	return events
}
