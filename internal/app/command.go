package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pouriyajamshidi/pingcheck"
	"github.com/pouriyajamshidi/pingcheck/internal/config"
)

var (
	// ErrMissingTarget is returned when no target was given.
	ErrMissingTarget = errors.New("a target IP address or hostname is required")

	// ErrInvalidPort is returned for ports outside 1-65535.
	ErrInvalidPort = errors.New("port must be between 1 and 65535")
)

// ConfigEnv names the environment variable read when --config is not given.
const ConfigEnv = "PINGCHECK_CONFIG"

type flags struct {
	port         int
	count        int
	timeout      int
	interval     int
	maxChecks    int
	icmp         bool
	privileged   bool
	pingFormat   string
	json         bool
	pretty       bool
	noColor      bool
	failuresOnly bool
	configPath   string
	logLevel     string
	logFile      string
	version      bool
	update       bool
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	var f flags
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "pingcheck <target> [flags]",
		Short: "Monitor the reachability of a host or a TCP port",
		Long: `pingcheck repeatedly checks a host with ping, or a TCP port with a
connect attempt, and reports availability, latency and packet loss.

Without --port the system ping utility is used. Press Ctrl+C to stop.`,
		Example: `  pingcheck 8.8.8.8
  pingcheck example.com -p 443 -i 10 -m 5
  pingcheck 1.1.1.1 --icmp --json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.version || f.update {
				return about(cmd.Context(), f, stdout)
			}

			if len(args) == 0 {
				return ErrMissingTarget
			}

			cfg, port, err := settings(cmd, f)
			if err != nil {
				return err
			}

			return monitor(cmd.Context(), args[0], port, cfg, stdout)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&f.port, "port", "p", 0, "check this TCP port instead of pinging")
	fs.IntVarP(&f.count, "count", "c", defaults.Count, "ping packets per check")
	fs.IntVarP(&f.timeout, "timeout", "t", defaults.Timeout, "per-probe timeout in seconds")
	fs.IntVarP(&f.interval, "interval", "i", defaults.Interval, "seconds between checks")
	fs.IntVarP(&f.maxChecks, "max-checks", "m", defaults.MaxChecks, "stop after this many checks, 0 for unlimited")
	fs.BoolVar(&f.icmp, "icmp", false, "send ICMP echo requests directly instead of running ping")
	fs.BoolVar(&f.privileged, "privileged", false, "use a raw ICMP socket, needs root or CAP_NET_RAW")
	fs.StringVar(&f.pingFormat, "ping-format", defaults.PingFormat, "ping output format: auto, posix or windows")
	fs.BoolVarP(&f.json, "json", "j", false, "output in JSON format")
	fs.BoolVar(&f.pretty, "pretty", false, "use indentation when using JSON output format")
	fs.BoolVar(&f.noColor, "no-color", false, "do not colorize output")
	fs.BoolVar(&f.failuresOnly, "failures-only", false, "only print unavailable results")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file (default $"+ConfigEnv+")")
	fs.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&f.logFile, "log-file", "", "write JSON logs to this rotated file instead of stderr")
	fs.BoolVarP(&f.version, "version", "v", false, "show version")
	fs.BoolVarP(&f.update, "update", "u", false, "check for updates and exit")

	return cmd
}

// about answers --version and --update through the printer selected by
// the output flags.
func about(ctx context.Context, f flags, stdout io.Writer) error {
	printer, err := pingcheck.NewPrinter(pingcheck.PrinterConfig{
		OutputJSON: f.json,
		PrettyJSON: f.pretty,
		NoColor:    f.noColor,
		Writer:     stdout,
	})
	if err != nil {
		return err
	}

	if f.version {
		printer.PrintInfo("pingcheck version %s", Version)
	}

	if f.update {
		latest, err := LatestRelease(ctx, nil)
		if err != nil {
			return err
		}
		reportUpdate(printer, latest)
	}

	return nil
}

// settings loads the configuration file and applies the flags that
// were set explicitly on top of it.
func settings(cmd *cobra.Command, f flags) (config.Config, uint16, error) {
	path := f.configPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, 0, err
	}

	changed := cmd.Flags().Changed

	if changed("count") {
		cfg.Count = f.count
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("interval") {
		cfg.Interval = f.interval
	}
	if changed("max-checks") {
		cfg.MaxChecks = f.maxChecks
	}
	if changed("icmp") {
		cfg.PingMethod = config.MethodShell
		if f.icmp {
			cfg.PingMethod = config.MethodICMP
		}
	}
	if changed("privileged") {
		cfg.Privileged = f.privileged
	}
	if changed("ping-format") {
		cfg.PingFormat = f.pingFormat
	}
	if changed("no-color") && f.noColor {
		cfg.Output = config.OutputPlain
	}
	if changed("json") && f.json {
		cfg.Output = config.OutputJSON
	}
	if changed("pretty") {
		cfg.Pretty = f.pretty
	}
	if changed("failures-only") {
		cfg.FailuresOnly = f.failuresOnly
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, 0, err
	}

	var port uint16
	if changed("port") {
		if f.port < 1 || f.port > 65535 {
			return config.Config{}, 0, fmt.Errorf("%w, got %d", ErrInvalidPort, f.port)
		}
		port = uint16(f.port)
	}

	return cfg, port, nil
}
