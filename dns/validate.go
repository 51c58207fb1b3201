package dns

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned for targets that are neither
// an IP address nor a resolvable hostname.
var ErrInvalidTarget = errors.New("not a valid IP address or hostname")

// Kind classifies a probe target.
type Kind int

const (
	KindInvalid Kind = iota
	KindIP
	KindHostname
)

func (k Kind) String() string {
	switch k {
	case KindIP:
		return "ip"
	case KindHostname:
		return "hostname"
	default:
		return "invalid"
	}
}

// Validate classifies target as an IP literal, a resolvable hostname or invalid.
//
// IP literals never hit the network. Inputs that look like a dotted-decimal
// IPv4 address but fail to parse are invalid without a lookup. Everything else
// is resolved once; the resolved addresses are not kept.
func (r *Resolver) Validate(ctx context.Context, target string) (Kind, error) {
	if target == "" {
		return KindInvalid, fmt.Errorf("%w: empty target", ErrInvalidTarget)
	}

	if looksLikeIPv4(target) {
		if _, err := ParseIPv4(target); err != nil {
			return KindInvalid, fmt.Errorf("%w: %q: %w", ErrInvalidTarget, target, err)
		}
		return KindIP, nil
	}

	if strings.Contains(target, ":") {
		if _, err := netip.ParseAddr(target); err != nil {
			return KindInvalid, fmt.Errorf("%w: %q: %w", ErrInvalidTarget, target, err)
		}
		return KindIP, nil
	}

	if _, err := r.lookupAll(ctx, target); err != nil {
		return KindInvalid, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	return KindHostname, nil
}

// Validate classifies target using the system resolver and default settings.
func Validate(ctx context.Context, target string) (Kind, error) {
	return NewResolver().Validate(ctx, target)
}

// ParseIPv4 parses a strict dotted-decimal IPv4 address:
// exactly four decimal octets in 0..255 without signs or leading zeros.
func ParseIPv4(s string) (netip.Addr, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return netip.Addr{}, fmt.Errorf("expected 4 octets, got %d", len(parts))
	}

	var octets [4]byte
	for i, part := range parts {
		if part == "" || len(part) > 3 || !isDigits(part) {
			return netip.Addr{}, fmt.Errorf("invalid octet %q", part)
		}

		if len(part) > 1 && part[0] == '0' {
			return netip.Addr{}, fmt.Errorf("octet %q has a leading zero", part)
		}

		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return netip.Addr{}, fmt.Errorf("octet %q out of range", part)
		}

		octets[i] = byte(n)
	}

	return netip.AddrFrom4(octets), nil
}

// looksLikeIPv4 reports whether s was meant as an IPv4 literal: only digits
// and dots, or a numeric last label, which no top-level domain can be.
func looksLikeIPv4(s string) bool {
	if strings.Trim(s, "0123456789.") == "" {
		return true
	}

	labels := strings.Split(s, ".")
	return len(labels) > 1 && isDigits(labels[len(labels)-1])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
