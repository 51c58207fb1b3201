// Package statistics holds probe results and the session summary built from them.
package statistics

import (
	"fmt"
	"math"
	"time"
)

// Statistics summarizes a monitoring session.
// It keeps counters and running aggregates only, never the results themselves.
type Statistics struct {
	// Target information
	Target string
	Kind   Kind
	Port   uint16
	Method string

	// Time tracking
	StartTime       time.Time
	EndTime         time.Time
	StartOfUptime   time.Time
	StartOfDowntime time.Time
	LastAvailable   time.Time
	LastUnavailable time.Time

	// Uptime/Downtime tracking
	DestWasDown   bool
	TotalUptime   time.Duration
	TotalDowntime time.Duration
	DownTime      time.Duration // most recent downtime period (for printing)
	LongestUp     LongestTime
	LongestDown   LongestTime

	// Check counters
	Checks             uint
	Available          uint
	Unavailable        uint
	OngoingAvailable   uint
	OngoingUnavailable uint

	Latency LatencyResult

	StoppedByUser bool
}

// Record folds the result of one cycle observed at the given time into the summary.
// It reports whether the target came back after a period of unavailability.
func (s *Statistics) Record(r Result, at time.Time) (recovered bool) {
	s.Checks++

	if !r.IsAvailable() {
		s.Unavailable++
		s.OngoingAvailable = 0
		s.OngoingUnavailable++
		s.LastUnavailable = at

		if !s.DestWasDown {
			if !s.StartOfUptime.IsZero() {
				upDuration := at.Sub(s.StartOfUptime)
				s.TotalUptime += upDuration
				SetLongestDuration(s.StartOfUptime, upDuration, &s.LongestUp)
			}
			s.DestWasDown = true
			s.StartOfDowntime = at
		}

		return false
	}

	s.Available++
	s.OngoingAvailable++
	s.OngoingUnavailable = 0
	s.LastAvailable = at

	if latency, ok := r.Latency(); ok {
		s.Latency.Add(latency)
	}

	if s.DestWasDown {
		s.DestWasDown = false
		s.DownTime = at.Sub(s.StartOfDowntime)
		s.TotalDowntime += s.DownTime
		SetLongestDuration(s.StartOfDowntime, s.DownTime, &s.LongestDown)
		s.StartOfUptime = at
		return true
	}

	if s.StartOfUptime.IsZero() {
		s.StartOfUptime = at
	}

	return false
}

// Finalize closes the ongoing uptime or downtime period at end.
func (s *Statistics) Finalize(end time.Time) {
	s.EndTime = end

	if s.DestWasDown {
		downDuration := end.Sub(s.StartOfDowntime)
		s.TotalDowntime += downDuration
		SetLongestDuration(s.StartOfDowntime, downDuration, &s.LongestDown)
		return
	}

	if !s.StartOfUptime.IsZero() {
		upDuration := end.Sub(s.StartOfUptime)
		s.TotalUptime += upDuration
		SetLongestDuration(s.StartOfUptime, upDuration, &s.LongestUp)
	}
}

// FailureRate returns the share of unavailable checks in percent.
func (s *Statistics) FailureRate() float64 {
	if s.Checks == 0 {
		return 0
	}

	return float64(s.Unavailable) / float64(s.Checks) * 100
}

// Duration returns how long the session ran.
func (s *Statistics) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}

	return s.EndTime.Sub(s.StartTime)
}

func (s *Statistics) StartTimeFormatted() string {
	return s.StartTime.Format(time.DateTime)
}

func (s *Statistics) EndTimeFormatted() string {
	return s.EndTime.Format(time.DateTime)
}

// LongestTime holds information about the longest period of uptime or downtime.
type LongestTime struct {
	Start    time.Time     // Start time of the longest period.
	End      time.Time     // End time of the longest period.
	Duration time.Duration // Duration of the longest period.
}

// NewLongestTime creates and returns a LongestTime instance with the provided start time and duration.
func NewLongestTime(startTime time.Time, duration time.Duration) LongestTime {
	return LongestTime{
		Start:    startTime,
		End:      startTime.Add(duration),
		Duration: duration,
	}
}

// LatencyResult aggregates latency samples in milliseconds.
type LatencyResult struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint
}

// Add records one sample.
func (l *LatencyResult) Add(ms float64) {
	if l.Count == 0 || ms < l.Min {
		l.Min = ms
	}

	if ms > l.Max {
		l.Max = ms
	}

	l.Sum += ms
	l.Count++
}

// Average returns the mean of all samples, 0 without samples.
func (l LatencyResult) Average() float64 {
	if l.Count == 0 {
		return 0
	}

	return l.Sum / float64(l.Count)
}

// HasResults reports whether any sample was recorded.
func (l LatencyResult) HasResults() bool {
	return l.Count > 0
}

// SetLongestDuration updates the longest uptime or downtime based on the given type.
func SetLongestDuration(start time.Time, duration time.Duration, longest *LongestTime) {
	if start.IsZero() || duration == 0 {
		return
	}

	newLongest := NewLongestTime(start, duration)

	if longest.End.IsZero() || newLongest.Duration >= longest.Duration {
		*longest = newLongest
	}
}

// DurationToString creates a human-readable string for a given duration
func DurationToString(duration time.Duration) string {
	hours := math.Floor(duration.Hours())
	if hours > 0 {
		duration -= time.Duration(hours * float64(time.Hour))
	}

	minutes := math.Floor(duration.Minutes())
	if minutes > 0 {
		duration -= time.Duration(minutes * float64(time.Minute))
	}

	seconds := duration.Seconds()

	switch {
	// Hours
	case hours >= 2:
		return fmt.Sprintf("%.0f hours %.0f minutes %.0f seconds", hours, minutes, seconds)
	case hours == 1 && minutes == 0 && seconds == 0:
		return fmt.Sprintf("%.0f hour", hours)
	case hours == 1:
		return fmt.Sprintf("%.0f hour %.0f minutes %.0f seconds", hours, minutes, seconds)

	// Minutes
	case minutes >= 2:
		return fmt.Sprintf("%.0f minutes %.0f seconds", minutes, seconds)
	case minutes == 1 && seconds == 0:
		return fmt.Sprintf("%.0f minute", minutes)
	case minutes == 1:
		return fmt.Sprintf("%.0f minute %.0f seconds", minutes, seconds)

	// Seconds
	case seconds == 0 || seconds == 1 || seconds >= 1 && seconds < 1.1:
		return fmt.Sprintf("%.0f second", seconds)
	case seconds < 1:
		return fmt.Sprintf("%.1f seconds", seconds)

	default:
		return fmt.Sprintf("%.0f seconds", seconds)
	}
}

// Milliseconds returns d in milliseconds keeping the fractional part,
// which d.Milliseconds() drops.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
