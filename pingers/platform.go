package pingers

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Platform is the dialect of the system ping utility. It decides both
// the command line and how the textual report is read back.
type Platform interface {
	Name() string
	Args(target string, count int, timeout time.Duration) []string
	Parse(output string) (Summary, error)
}

// Summary is what could be read from a ping report.
// Fields that were not found keep their Has flag false.
type Summary struct {
	PacketLoss    float64
	HasPacketLoss bool
	AvgRTT        float64
	HasAvgRTT     bool
}

var (
	// POSIX reads the iputils, BSD, macOS and busybox report.
	POSIX Platform = posixPlatform{}
	// Windows reads the ping.exe report.
	Windows Platform = windowsPlatform{}
)

// ErrUnknownPlatform is returned by ParsePlatform for unsupported names.
var ErrUnknownPlatform = errors.New("unknown ping format")

// PlatformFor returns the platform matching a GOOS value.
func PlatformFor(goos string) Platform {
	if goos == "windows" {
		return Windows
	}
	return POSIX
}

// ParsePlatform maps a configured format name to a Platform.
// "auto" and "" select the platform for goos.
func ParsePlatform(name, goos string) (Platform, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return PlatformFor(goos), nil
	case "posix", "linux", "darwin", "unix":
		return POSIX, nil
	case "windows":
		return Windows, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
}

var (
	posixLossRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)% packet loss`)
	posixRTTRe  = regexp.MustCompile(`min/avg/max(?:/[a-z]+)?\s*=\s*([0-9.]+)/([0-9.]+)/([0-9.]+)`)

	windowsPacketsRe = regexp.MustCompile(`Sent = ([0-9]+), Received = ([0-9]+)`)
	windowsAverageRe = regexp.MustCompile(`Average = ([0-9]+(?:\.[0-9]+)?)\s*ms`)
)

type posixPlatform struct{}

func (posixPlatform) Name() string { return "posix" }

// Args builds `ping -c <count> -W <seconds> <target>`.
func (posixPlatform) Args(target string, count int, timeout time.Duration) []string {
	seconds := int(math.Ceil(timeout.Seconds()))
	if seconds < 1 {
		seconds = 1
	}

	return []string{
		"-c", strconv.Itoa(count),
		"-W", strconv.Itoa(seconds),
		target,
	}
}

// Parse reads "N% packet loss" and "min/avg/max... = a/b/c" lines.
func (posixPlatform) Parse(output string) (Summary, error) {
	var summary Summary
	var errs []error

	if m := posixLossRe.FindStringSubmatch(output); m != nil {
		loss, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("packet loss %q: %w", m[1], err))
		} else {
			summary.PacketLoss = clampPercent(loss)
			summary.HasPacketLoss = true
		}
	}

	if m := posixRTTRe.FindStringSubmatch(output); m != nil {
		avg, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("average rtt %q: %w", m[2], err))
		} else {
			summary.AvgRTT = avg
			summary.HasAvgRTT = true
		}
	}

	return summary, multierr.Combine(errs...)
}

type windowsPlatform struct{}

func (windowsPlatform) Name() string { return "windows" }

// Args builds `ping -n <count> -w <milliseconds> <target>`.
func (windowsPlatform) Args(target string, count int, timeout time.Duration) []string {
	return []string{
		"-n", strconv.Itoa(count),
		"-w", strconv.FormatInt(timeout.Milliseconds(), 10),
		target,
	}
}

// Parse reads "Packets: Sent = N, Received = M" and "Average = Xms".
func (windowsPlatform) Parse(output string) (Summary, error) {
	var summary Summary
	var errs []error

	if m := windowsPacketsRe.FindStringSubmatch(output); m != nil {
		sent, serr := strconv.Atoi(m[1])
		received, rerr := strconv.Atoi(m[2])
		switch {
		case serr != nil || rerr != nil:
			errs = append(errs, fmt.Errorf("packet counters %q/%q: %w", m[1], m[2], multierr.Combine(serr, rerr)))
		case sent > 0:
			summary.PacketLoss = clampPercent(100 - float64(received)/float64(sent)*100)
			summary.HasPacketLoss = true
		}
	}

	if m := windowsAverageRe.FindStringSubmatch(output); m != nil {
		avg, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("average rtt %q: %w", m[1], err))
		} else {
			summary.AvgRTT = avg
			summary.HasAvgRTT = true
		}
	}

	return summary, multierr.Combine(errs...)
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
