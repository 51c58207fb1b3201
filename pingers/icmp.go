package pingers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/pouriyajamshidi/pingcheck/dns"
	"github.com/pouriyajamshidi/pingcheck/option"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

const (
	protocolICMP        = 1
	defaultEchoInterval = time.Second
	maxReplySize        = 1500
)

var echoPayload = []byte("pingcheck")

// ICMPPinger sends ICMP echo requests itself instead of running the
// system ping utility. It only supports IPv4 targets.
type ICMPPinger struct {
	target     string
	interval   time.Duration
	privileged bool
	resolver   *dns.Resolver
	opt        options
}

type ICMPOption = option.Option[ICMPPinger]

func (p *ICMPPinger) options() *options {
	return &p.opt
}

// NewICMPPinger creates a native pinger for target. Without options it
// uses an unprivileged datagram socket.
func NewICMPPinger(target string, opts ...ICMPOption) *ICMPPinger {
	p := &ICMPPinger{
		target:   target,
		interval: defaultEchoInterval,
		resolver: dns.NewResolver(dns.WithIPv4Only()),
		opt:      defaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithPrivileged switches to a raw ICMP socket, which needs
// CAP_NET_RAW or root.
func WithPrivileged(privileged bool) ICMPOption {
	return func(p *ICMPPinger) {
		p.privileged = privileged
	}
}

// WithEchoInterval sets the pause between two echo requests of one probe.
func WithEchoInterval(d time.Duration) ICMPOption {
	return func(p *ICMPPinger) {
		if d >= 0 {
			p.interval = d
		}
	}
}

// WithResolver replaces the resolver used for hostname targets.
func WithResolver(r *dns.Resolver) ICMPOption {
	return func(p *ICMPPinger) {
		if r != nil {
			p.resolver = r
		}
	}
}

// Kind implements Pinger.
func (p *ICMPPinger) Kind() statistics.Kind {
	return statistics.Ping
}

// Target implements Pinger.
func (p *ICMPPinger) Target() string {
	return p.target
}

// Port implements Pinger.
func (p *ICMPPinger) Port() uint16 {
	return 0
}

// Deadline is the wall-clock bound of a single probe. It covers a full
// timeout for every echo plus the pauses between them.
func (p *ICMPPinger) Deadline() time.Duration {
	count := time.Duration(p.opt.count)
	return p.opt.timeout*count + p.interval*(count-1) + deadlineGrace
}

// Ping implements Pinger.
func (p *ICMPPinger) Ping(ctx context.Context) statistics.Result {
	result := statistics.NewPingResult(p.target)

	deadline := p.Deadline()
	pctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	addr, err := p.resolver.ResolveHostname(pctx, p.target)
	if err != nil {
		if ctx.Err() != nil {
			result.AddError("ping cancelled")
		} else {
			result.AddError("resolve %s: %v", p.target, err)
		}
		return result
	}

	if !addr.Is4() {
		result.AddError("native ping supports IPv4 targets only, got %s", addr)
		return result
	}

	network := "udp4"
	if p.privileged {
		network = "ip4:icmp"
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		result.AddError("open icmp socket: %v", err)
		return result
	}
	defer conn.Close()

	dst := p.destination(addr)
	id := os.Getpid() & 0xffff

	var latency statistics.LatencyResult
	var lastSend time.Time
	sent := 0

	for seq := 1; seq <= p.opt.count; seq++ {
		if seq > 1 && !sleepCtx(pctx, p.interval-time.Since(lastSend)) {
			break
		}

		lastSend = time.Now()
		sent++
		rtt, err := p.echo(pctx, conn, dst, addr, id, seq)
		if err != nil {
			p.opt.logger.Debug("no echo reply",
				zap.String("target", addr.String()),
				zap.Int("seq", seq),
				zap.Error(err))
			if pctx.Err() != nil {
				break
			}
			continue
		}

		latency.Add(statistics.Milliseconds(rtt))
	}

	switch {
	case ctx.Err() != nil:
		result.AddError("ping cancelled")
		return result
	case errors.Is(pctx.Err(), context.DeadlineExceeded) && sent < p.opt.count:
		result.AddError("ping timed out after %s", deadline)
		return result
	}

	summarizeEchoes(result, sent, latency)

	p.opt.logger.Debug("native ping finished",
		zap.String("target", addr.String()),
		zap.Int("sent", sent),
		zap.Uint("received", latency.Count))

	return result
}

// summarizeEchoes fills packet loss, average and availability from the
// replies collected for sent requests.
func summarizeEchoes(result *statistics.PingResult, sent int, latency statistics.LatencyResult) {
	if sent == 0 {
		return
	}

	received := int(latency.Count)
	result.PacketLoss = float64(sent-received) / float64(sent) * 100
	result.AvgRTT = latency.Average()
	result.Available = received > 0
}

func (p *ICMPPinger) destination(addr netip.Addr) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: addr.AsSlice()}
	}
	return &net.UDPAddr{IP: addr.AsSlice()}
}

// echo sends one request and waits for the matching reply.
func (p *ICMPPinger) echo(ctx context.Context, conn *icmp.PacketConn, dst net.Addr, addr netip.Addr, id, seq int) (time.Duration, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: echoPayload},
	}

	b, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshal echo request: %w", err)
	}

	readDeadline := time.Now().Add(p.opt.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(readDeadline) {
		readDeadline = d
	}
	if err := conn.SetReadDeadline(readDeadline); err != nil {
		return 0, fmt.Errorf("set read deadline: %w", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(b, dst); err != nil {
		return 0, fmt.Errorf("send echo request: %w", err)
	}

	buf := make([]byte, maxReplySize)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return 0, fmt.Errorf("wait for echo reply: %w", err)
		}

		if peerAddr(peer) != addr {
			continue
		}

		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}

		// unprivileged sockets get their ID rewritten by the kernel
		if matchEchoReply(reply, id, seq, p.privileged) {
			return time.Since(start), nil
		}
	}
}

func matchEchoReply(m *icmp.Message, id, seq int, checkID bool) bool {
	if m == nil || m.Type != ipv4.ICMPTypeEchoReply {
		return false
	}

	echo, ok := m.Body.(*icmp.Echo)
	if !ok || echo.Seq != seq {
		return false
	}

	return !checkID || echo.ID == id
}

func peerAddr(a net.Addr) netip.Addr {
	var ip net.IP
	switch v := a.(type) {
	case *net.UDPAddr:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	default:
		return netip.Addr{}
	}

	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}
	}
	return addr.Unmap()
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
