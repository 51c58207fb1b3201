package app

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pouriyajamshidi/pingcheck/internal/config"
	"github.com/pouriyajamshidi/pingcheck/pingers"
	"github.com/pouriyajamshidi/pingcheck/printers"
	"github.com/pouriyajamshidi/pingcheck/statistics"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.10.0", "1.9.9", 1},
		{"2.0", "2.0.1", -1},
		{"2.0.1", "2.0", 1},
		{"v1.0.0", "1.0.0", 0},
		{"dev", "0.0.1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.v1+"_"+tt.v2, func(t *testing.T) {
			assert.Equal(t, tt.want, compareVersions(tt.v1, tt.v2))
		})
	}
}

func releaseServer(t *testing.T, body string) *github.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/"+Owner+"/"+Repo+"/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return client
}

func TestLatestRelease(t *testing.T) {
	client := releaseServer(t, `{"tag_name": "v1.3.0", "html_url": "https://example.com/releases/v1.3.0"}`)

	latest, err := LatestRelease(t.Context(), client)
	require.NoError(t, err)

	assert.Equal(t, Release{Tag: "v1.3.0", Version: "1.3.0", URL: "https://example.com/releases/v1.3.0"}, latest)
}

func TestLatestRelease_URLFallback(t *testing.T) {
	latest, err := LatestRelease(t.Context(), releaseServer(t, `{"tag_name": "2.0.1"}`))
	require.NoError(t, err)

	assert.Equal(t, "2.0.1", latest.Version)
	assert.Equal(t, "https://github.com/pouriyajamshidi/pingcheck/releases/tag/2.0.1", latest.URL)
}

func TestLatestRelease_BadTag(t *testing.T) {
	_, err := LatestRelease(t.Context(), releaseServer(t, `{"tag_name": "nightly"}`))
	assert.ErrorIs(t, err, ErrReleaseTag)
}

func TestReportUpdate(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })
	Version = "1.2.0"

	tests := []struct {
		name   string
		latest Release
		want   string
	}{
		{
			name:   "newer release",
			latest: Release{Tag: "v1.3.0", Version: "1.3.0", URL: "https://example.com/v1.3.0"},
			want:   "pingcheck 1.3.0 is available (running 1.2.0), download it from https://example.com/v1.3.0\n",
		},
		{
			name:   "same release",
			latest: Release{Tag: "1.2.0", Version: "1.2.0"},
			want:   "pingcheck 1.2.0 is up to date\n",
		},
		{
			name:   "older release",
			latest: Release{Tag: "v1.1.9", Version: "1.1.9"},
			want:   "running pingcheck 1.2.0, ahead of the latest release 1.1.9\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportUpdate(printers.NewPlainPrinter(printers.WithWriter[*printers.PlainPrinter](&buf)), tt.latest)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestBuildPinger(t *testing.T) {
	logger := zap.NewNop()

	t.Run("port selects tcp", func(t *testing.T) {
		p, err := buildPinger("127.0.0.1", 443, config.Default(), logger, "linux")
		require.NoError(t, err)

		assert.IsType(t, &pingers.TCPPinger{}, p)
		assert.Equal(t, statistics.Port, p.Kind())
		assert.Equal(t, uint16(443), p.Port())
	})

	t.Run("default selects system ping", func(t *testing.T) {
		p, err := buildPinger("127.0.0.1", 0, config.Default(), logger, "linux")
		require.NoError(t, err)

		shell, ok := p.(*pingers.ShellPinger)
		require.True(t, ok)
		assert.Equal(t, statistics.Ping, shell.Kind())
		assert.Equal(t, "posix", shell.Platform().Name())
	})

	t.Run("windows host selects windows dialect", func(t *testing.T) {
		p, err := buildPinger("127.0.0.1", 0, config.Default(), logger, "windows")
		require.NoError(t, err)
		assert.Equal(t, "windows", p.(*pingers.ShellPinger).Platform().Name())
	})

	t.Run("icmp method", func(t *testing.T) {
		cfg := config.Default()
		cfg.PingMethod = config.MethodICMP

		p, err := buildPinger("127.0.0.1", 0, cfg, logger, "linux")
		require.NoError(t, err)
		assert.IsType(t, &pingers.ICMPPinger{}, p)
	})

	t.Run("unknown format", func(t *testing.T) {
		cfg := config.Default()
		cfg.PingFormat = "plan9"

		_, err := buildPinger("127.0.0.1", 0, cfg, logger, "linux")
		assert.ErrorIs(t, err, pingers.ErrUnknownPlatform)
	})
}
