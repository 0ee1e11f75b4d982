// Package versions checks the published releases of blocksmith.
package versions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// DefaultBaseURL is the GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Version is one published release.
type Version struct {
	*semver.Version
	Tag    string
	WebURL string
}

// Prerelease reports whether v is a pre-release.
func (v Version) Prerelease() bool {
	return v.Version.Prerelease() != ""
}

// Parse reads a version, accepting a leading "v".
func Parse(s string) (Version, error) {
	sv, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{Version: sv, Tag: s}, nil
}

// Releases is the outcome of a Fetch.
type Releases struct {
	// Versions lists every release, newest first.
	Versions []Version
	// Latest is the newest release that is not a pre-release.
	Latest *Version
	// LatestPrerelease is the newest pre-release, if it is newer than Latest.
	LatestPrerelease *Version
}

// Feed reads the releases of a GitHub repository.
type Feed struct {
	Client  *http.Client
	BaseURL string
}

// NewFeed returns a feed on the public API with a bounded client.
func NewFeed() *Feed {
	return &Feed{Client: &http.Client{Timeout: 10 * time.Second}, BaseURL: DefaultBaseURL}
}

type release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// Fetch downloads the releases of owner/repo. Drafts and tags that are not
// semantic versions are skipped.
func (f *Feed) Fetch(ctx context.Context, owner, repo string) (*Releases, error) {
	base := strings.TrimSuffix(f.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases", base, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("failed to fetch releases: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var raw []release
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode releases: %w", err)
	}
	return collect(raw), nil
}

func collect(raw []release) *Releases {
	out := &Releases{}
	for _, r := range raw {
		if r.Draft {
			continue
		}
		v, err := Parse(r.TagName)
		if err != nil {
			continue
		}
		v.WebURL = r.HTMLURL
		out.Versions = append(out.Versions, v)
	}
	sort.SliceStable(out.Versions, func(i, j int) bool {
		return out.Versions[i].GreaterThan(out.Versions[j].Version)
	})
	for i := range out.Versions {
		v := &out.Versions[i]
		if v.Prerelease() {
			if out.Latest == nil && out.LatestPrerelease == nil {
				out.LatestPrerelease = v
			}
			continue
		}
		if out.Latest == nil {
			out.Latest = v
		}
	}
	return out
}

// Status classifies a release relative to the running version.
type Status string

const (
	StatusNone       Status = "none"
	StatusCurrent    Status = "current"
	StatusUpdate     Status = "update"
	StatusPrerelease Status = "prerelease"
	StatusOther      Status = "other"
)

// Icon classifies v. latest is the newest non pre-release and may be nil.
func Icon(v *Version, current Version, latest *Version) Status {
	if v == nil || v.Version == nil {
		return StatusNone
	}
	if v.Prerelease() {
		if v.Equal(current.Version) {
			return StatusCurrent
		}
		return StatusPrerelease
	}
	if v.GreaterThan(current.Version) {
		if latest != nil && v.Equal(latest.Version) {
			return StatusUpdate
		}
		return StatusOther
	}
	if v.Equal(current.Version) {
		return StatusCurrent
	}
	return StatusOther
}
