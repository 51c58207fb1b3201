package statistics

import (
	"fmt"
	"net"
	"strconv"
)

// Kind tells which probe produced a result.
type Kind string

const (
	Ping Kind = "ping"
	Port Kind = "port"
)

// UnknownPacketLoss is the packet loss reported until a ping summary has been parsed.
const UnknownPacketLoss float64 = 100

// Result is the outcome of a single probe attempt.
// Implementations are created fresh for every cycle and are not modified
// once the pinger has returned them.
type Result interface {
	Kind() Kind
	Addr() string
	IsAvailable() bool
	// Latency returns the measured latency in milliseconds and
	// whether it was measured at all.
	Latency() (float64, bool)
	Failures() []string
}

var (
	_ Result = (*PingResult)(nil)
	_ Result = (*PortResult)(nil)
)

// PingResult holds the outcome of an ICMP echo probe.
type PingResult struct {
	Target     string   `json:"target"`
	Available  bool     `json:"available"`
	PacketLoss float64  `json:"packetLoss"`    // percent, 0-100
	AvgRTT     float64  `json:"avgResponseMs"` // 0 when unmeasured
	Errors     []string `json:"errors,omitempty"`
}

// NewPingResult returns a PingResult with the unknown defaults set:
// unavailable, 100% packet loss and no average.
func NewPingResult(target string) *PingResult {
	return &PingResult{
		Target:     target,
		PacketLoss: UnknownPacketLoss,
	}
}

// AddError appends a formatted error annotation.
func (r *PingResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *PingResult) Kind() Kind         { return Ping }
func (r *PingResult) Addr() string       { return r.Target }
func (r *PingResult) IsAvailable() bool  { return r.Available }
func (r *PingResult) Failures() []string { return r.Errors }

// Latency implements Result.
func (r *PingResult) Latency() (float64, bool) {
	return r.AvgRTT, r.Available && r.AvgRTT > 0
}

// PortResult holds the outcome of a TCP connect probe.
type PortResult struct {
	Target       string   `json:"target"` // host:port
	Available    bool     `json:"available"`
	ResponseTime float64  `json:"responseTimeMs"` // 0 unless the port was open
	Errors       []string `json:"errors,omitempty"`
}

// NewPortResult returns an unavailable PortResult for host and port.
func NewPortResult(host string, port uint16) *PortResult {
	return &PortResult{
		Target: net.JoinHostPort(host, strconv.Itoa(int(port))),
	}
}

// AddError appends a formatted error annotation.
func (r *PortResult) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *PortResult) Kind() Kind         { return Port }
func (r *PortResult) Addr() string       { return r.Target }
func (r *PortResult) IsAvailable() bool  { return r.Available }
func (r *PortResult) Failures() []string { return r.Errors }

// Latency implements Result.
func (r *PortResult) Latency() (float64, bool) {
	return r.ResponseTime, r.Available
}
