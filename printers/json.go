package printers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pouriyajamshidi/pingcheck/option"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

// JSONEventType is a special type for each method
// in the printer interface so that automatic tools
// can understand what kind of an event they've received.
type JSONEventType string

const (
	StartEvent      JSONEventType = "start"      // Event type for `PrintStart` method.
	CheckEvent      JSONEventType = "check"      // Event type for `PrintCheck` method.
	ResultEvent     JSONEventType = "result"     // Event type for `PrintResult` method.
	RecoveredEvent  JSONEventType = "recovered"  // Event type for `PrintTotalDownTime` method.
	NextCheckEvent  JSONEventType = "nextCheck"  // Event type for `PrintNextCheck` method.
	StoppedEvent    JSONEventType = "stopped"    // Event type for `PrintStopped` method.
	StatisticsEvent JSONEventType = "statistics" // Event type for `PrintStatistics` method.
	InfoEvent       JSONEventType = "info"       // Event type for `PrintInfo` method.
	ErrorEvent      JSONEventType = "error"      // Event type for `PrintError` method.
)

// JSONData contains all possible fields for JSON output.
// Because one event usually contains only a subset of fields,
// other fields will be omitted in the output.
type JSONData struct {
	Type      JSONEventType `json:"type"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp,omitempty"`
	Target    string        `json:"target,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Port      uint16        `json:"port,omitempty"`
	Check     uint          `json:"check,omitempty"`

	// Available is a pointer so that false is still printed for result events.
	Available    *bool    `json:"available,omitempty"`
	PacketLoss   *float64 `json:"packetLoss,omitempty"`
	AvgResponse  *float64 `json:"avgResponseMs,omitempty"`
	ResponseTime *float64 `json:"responseTimeMs,omitempty"`
	Errors       []string `json:"errors,omitempty"`

	Interval float64 `json:"intervalSeconds,omitempty"`
	Downtime float64 `json:"downtimeSeconds,omitempty"`

	// statistics only
	Method               string  `json:"method,omitempty"`
	TotalChecks          uint    `json:"totalChecks,omitempty"`
	TotalAvailable       uint    `json:"totalAvailable,omitempty"`
	TotalUnavailable     uint    `json:"totalUnavailable,omitempty"`
	FailureRate          string  `json:"failureRate,omitempty"`
	LastAvailable        string  `json:"lastAvailable,omitempty"`
	LastUnavailable      string  `json:"lastUnavailable,omitempty"`
	TotalUptime          float64 `json:"totalUptime,omitempty"`
	TotalDowntime        float64 `json:"totalDowntime,omitempty"`
	LongestUptime        string  `json:"longestUptime,omitempty"`
	LongestUptimeStart   string  `json:"longestUptimeStart,omitempty"`
	LongestUptimeEnd     string  `json:"longestUptimeEnd,omitempty"`
	LongestDowntime      string  `json:"longestDowntime,omitempty"`
	LongestDowntimeStart string  `json:"longestDowntimeStart,omitempty"`
	LongestDowntimeEnd   string  `json:"longestDowntimeEnd,omitempty"`
	LatencyMin           string  `json:"latencyMin,omitempty"`
	LatencyAvg           string  `json:"latencyAvg,omitempty"`
	LatencyMax           string  `json:"latencyMax,omitempty"`
	StartTimestamp       string  `json:"startTimestamp,omitempty"`
	EndTimestamp         string  `json:"endTimestamp,omitempty"`
	TotalDuration        string  `json:"totalDuration,omitempty"`
	StoppedByUser        bool    `json:"stoppedByUser,omitempty"`
}

// JSONPrinter writes one JSON object per event.
type JSONPrinter struct {
	opt    options
	pretty bool
}

type JSONPrinterOption = option.Option[JSONPrinter]

func (p *JSONPrinter) options() *options {
	return &p.opt
}

// WithPrettyJSON indents every event.
func WithPrettyJSON() JSONPrinterOption {
	return func(p *JSONPrinter) {
		p.pretty = true
	}
}

// NewJSONPrinter creates a new JSONPrinter writing to stdout unless configured otherwise.
func NewJSONPrinter(opts ...JSONPrinterOption) *JSONPrinter {
	p := &JSONPrinter{opt: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *JSONPrinter) print(data JSONData) {
	encoder := json.NewEncoder(p.opt.Writer)
	if p.pretty {
		encoder.SetIndent("", "\t")
	}
	encoder.Encode(data)
}

// PrintStart prints the initial message before doing checks.
func (p *JSONPrinter) PrintStart(s *statistics.Statistics) {
	data := JSONData{
		Type:   StartEvent,
		Target: s.Target,
		Kind:   string(s.Kind),
		Port:   s.Port,
		Method: s.Method,
	}

	if s.Kind == statistics.Port {
		data.Message = fmt.Sprintf("Starting port %d check on %s", s.Port, s.Target)
	} else {
		data.Message = fmt.Sprintf("Starting ping check of %s", s.Target)
	}

	p.print(data)
}

// PrintCheck prints the header of the n-th check.
func (p *JSONPrinter) PrintCheck(n uint, at time.Time) {
	p.print(JSONData{
		Type:      CheckEvent,
		Message:   fmt.Sprintf("Check #%d", n),
		Check:     n,
		Timestamp: at.Format(time.DateTime),
	})
}

// PrintResult prints the outcome of one check.
func (p *JSONPrinter) PrintResult(r statistics.Result) {
	available := r.IsAvailable()
	data := JSONData{
		Type:      ResultEvent,
		Target:    r.Addr(),
		Kind:      string(r.Kind()),
		Available: &available,
		Errors:    r.Failures(),
	}

	switch v := r.(type) {
	case *statistics.PingResult:
		loss, avg := v.PacketLoss, v.AvgRTT
		data.PacketLoss = &loss
		data.AvgResponse = &avg
		data.Message = fmt.Sprintf("%s is %s", v.Target, statusWord(v.Available, "available", "unavailable"))

	case *statistics.PortResult:
		data.Message = fmt.Sprintf("%s is %s", v.Target, statusWord(v.Available, "open", "closed"))
		if v.Available {
			rt := v.ResponseTime
			data.ResponseTime = &rt
		}

	default:
		data.Message = fmt.Sprintf("%s is %s", r.Addr(), statusWord(available, "available", "unavailable"))
	}

	p.print(data)
}

func statusWord(ok bool, up, down string) string {
	if ok {
		return up
	}
	return down
}

// PrintTotalDownTime prints the downtime when the target came back.
func (p *JSONPrinter) PrintTotalDownTime(s *statistics.Statistics) {
	p.print(JSONData{
		Type:     RecoveredEvent,
		Message:  fmt.Sprintf("No response received for %s", statistics.DurationToString(s.DownTime)),
		Target:   s.Target,
		Downtime: s.DownTime.Seconds(),
	})
}

// PrintNextCheck announces the pause before the next check.
func (p *JSONPrinter) PrintNextCheck(interval time.Duration) {
	p.print(JSONData{
		Type:     NextCheckEvent,
		Message:  fmt.Sprintf("Next check in %s", statistics.DurationToString(interval)),
		Interval: interval.Seconds(),
	})
}

// PrintStopped prints the event emitted when the user interrupts monitoring.
func (p *JSONPrinter) PrintStopped(s *statistics.Statistics) {
	p.print(JSONData{
		Type:          StoppedEvent,
		Message:       "Check stopped by user.",
		Target:        s.Target,
		StoppedByUser: true,
	})
}

// PrintInfo formats and prints an informational message in JSON format.
func (p *JSONPrinter) PrintInfo(format string, args ...any) {
	p.print(JSONData{
		Type:    InfoEvent,
		Message: fmt.Sprintf(format, args...),
	})
}

// PrintError formats and prints an error message in JSON format.
func (p *JSONPrinter) PrintError(format string, args ...any) {
	p.print(JSONData{
		Type:    ErrorEvent,
		Message: fmt.Sprintf(format, args...),
	})
}

// PrintStatistics prints all gathered stats when monitoring ends.
func (p *JSONPrinter) PrintStatistics(s *statistics.Statistics) {
	data := JSONData{
		Type:             StatisticsEvent,
		Message:          fmt.Sprintf("%s statistics - %d checks performed | %d available", s.Target, s.Checks, s.Available),
		Target:           s.Target,
		Kind:             string(s.Kind),
		Port:             s.Port,
		Method:           s.Method,
		Timestamp:        time.Now().Format(time.DateTime),
		TotalChecks:      s.Checks,
		TotalAvailable:   s.Available,
		TotalUnavailable: s.Unavailable,
		FailureRate:      fmt.Sprintf("%.2f", s.FailureRate()),
		TotalUptime:      s.TotalUptime.Seconds(),
		TotalDowntime:    s.TotalDowntime.Seconds(),
		StartTimestamp:   s.StartTimeFormatted(),
		TotalDuration:    fmt.Sprintf("%.0f", s.Duration().Seconds()),
		StoppedByUser:    s.StoppedByUser,
	}

	if !s.LastAvailable.IsZero() {
		data.LastAvailable = s.LastAvailable.Format(time.DateTime)
	}

	if !s.LastUnavailable.IsZero() {
		data.LastUnavailable = s.LastUnavailable.Format(time.DateTime)
	}

	if s.LongestUp.Duration != 0 {
		data.LongestUptime = fmt.Sprintf("%.0f", s.LongestUp.Duration.Seconds())
		data.LongestUptimeStart = s.LongestUp.Start.Format(time.DateTime)
		data.LongestUptimeEnd = s.LongestUp.End.Format(time.DateTime)
	}

	if s.LongestDown.Duration != 0 {
		data.LongestDowntime = fmt.Sprintf("%.0f", s.LongestDown.Duration.Seconds())
		data.LongestDowntimeStart = s.LongestDown.Start.Format(time.DateTime)
		data.LongestDowntimeEnd = s.LongestDown.End.Format(time.DateTime)
	}

	if s.Latency.HasResults() {
		data.LatencyMin = fmt.Sprintf("%.3f", s.Latency.Min)
		data.LatencyAvg = fmt.Sprintf("%.3f", s.Latency.Average())
		data.LatencyMax = fmt.Sprintf("%.3f", s.Latency.Max)
	}

	if !s.EndTime.IsZero() {
		data.EndTimestamp = s.EndTimeFormatted()
	}

	p.print(data)
}
