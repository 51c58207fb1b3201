package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"

	"github.com/pouriyajamshidi/pingcheck"
)

// Version is set at compile time
var Version = "dev"

const (
	Owner = "pouriyajamshidi"
	Repo  = "pingcheck"
)

// ErrReleaseTag is returned when the latest release tag is not a semantic version.
var ErrReleaseTag = errors.New("version name does not match expected format")

var releaseTag = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// Release is the latest published release.
type Release struct {
	Tag     string
	Version string
	URL     string
}

// LatestRelease fetches the newest GitHub release. A nil client uses the public API.
func LatestRelease(ctx context.Context, client *github.Client) (Release, error) {
	if client == nil {
		client = github.NewClient(nil)
	}

	// unauthenticated requests from the same IP are limited to 60 per hour
	rel, _, err := client.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		return Release{}, fmt.Errorf("check for updates: %w", err)
	}

	tag := rel.GetTagName()
	m := releaseTag.FindStringSubmatch(tag)
	if m == nil {
		return Release{}, fmt.Errorf("%w: %s", ErrReleaseTag, tag)
	}

	url := rel.GetHTMLURL()
	if url == "" {
		url = fmt.Sprintf("https://github.com/%s/%s/releases/tag/%s", Owner, Repo, tag)
	}

	return Release{Tag: tag, Version: m[1], URL: url}, nil
}

// reportUpdate tells the user how the running build relates to latest.
func reportUpdate(p pingcheck.Printer, latest Release) {
	switch compareVersions(Version, latest.Version) {
	case -1:
		p.PrintInfo("pingcheck %s is available (running %s), download it from %s",
			latest.Version, Version, latest.URL)
	case 1:
		p.PrintInfo("running pingcheck %s, ahead of the latest release %s", Version, latest.Version)
	default:
		p.PrintInfo("pingcheck %s is up to date", Version)
	}
}

// compareVersions orders dotted numeric versions. Non-numeric parts count
// as zero and a shorter version sorts before its extensions.
func compareVersions(v1, v2 string) int {
	return slices.Compare(versionParts(v1), versionParts(v2))
}

func versionParts(v string) []int {
	fields := strings.Split(strings.TrimPrefix(v, "v"), ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		parts[i], _ = strconv.Atoi(f)
	}
	return parts
}
