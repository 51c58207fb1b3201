// Package pingcheck monitors the reachability of a host or a TCP port with repeated checks.
package pingcheck

import (
	"context"

	"github.com/pouriyajamshidi/pingcheck/pingers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

var (
	// List of compile time checks for all pingers
	_ Pinger = (*pingers.TCPPinger)(nil)
	_ Pinger = (*pingers.ShellPinger)(nil)
	_ Pinger = (*pingers.ICMPPinger)(nil)
)

// Pinger performs a single reachability check.
// Failures are reported through the returned result, never as an error.
type Pinger interface {
	Ping(ctx context.Context) statistics.Result
	Kind() statistics.Kind
	Target() string
	Port() uint16
}

// method describes how a pinger reaches its target.
func method(p Pinger) string {
	switch p.(type) {
	case *pingers.TCPPinger:
		return "tcp connect"
	case *pingers.ShellPinger:
		return "system ping"
	case *pingers.ICMPPinger:
		return "icmp echo"
	default:
		return string(p.Kind())
	}
}
