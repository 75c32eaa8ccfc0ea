// Package version checks for newer releases and greets first-time users.
package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/weekplan/internal/tui"
)

const (
	// GitHubRepo is the repository for version checks.
	GitHubRepo = "dhabedank/weekplan"

	// CheckInterval is how often to check for updates.
	CheckInterval = 24 * time.Hour

	checkTimeout = 5 * time.Second
)

// StateDir holds weekplan's markers, ~/.weekplan. Empty if home is unknown.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".weekplan")
}

// CheckResult holds the result of a version check.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// Checker queries the latest release at most once per CheckInterval.
type Checker struct {
	APIBase    string // Defaults to https://api.github.com
	StateDir   string // Where the last-check marker lives
	HTTPClient *http.Client
}

// NewChecker uses the public GitHub API and StateDir.
func NewChecker() *Checker {
	return &Checker{
		APIBase:    "https://api.github.com",
		StateDir:   StateDir(),
		HTTPClient: &http.Client{Timeout: checkTimeout},
	}
}

// CheckForUpdate reports a newer release, or nil for dev builds, recent
// checks and any failure. It never blocks the user for long.
func (c *Checker) CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}
	if c.checkedRecently() {
		return nil
	}
	c.markChecked()

	tag, url, err := c.latestRelease(ctx)
	if err != nil {
		return nil
	}
	if !isNewerVersion(strings.TrimPrefix(tag, "v"), strings.TrimPrefix(currentVersion, "v")) {
		return nil
	}
	return &CheckResult{
		CurrentVersion:  currentVersion,
		LatestVersion:   tag,
		UpdateAvailable: true,
		ReleaseURL:      url,
	}
}

// PrintUpdateNotice prints a notice if an update is available.
func PrintUpdateNotice(w io.Writer, result *CheckResult) {
	if result == nil || !result.UpdateAvailable {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s A new version of weekplan is available: %s (you have %s)\n",
		tui.WarningStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Fprintf(w, "  Update: %s\n", tui.HelpStyle.Render("go install github.com/dhabedank/weekplan@latest"))
	if result.ReleaseURL != "" {
		fmt.Fprintf(w, "  Notes: %s\n", tui.HelpStyle.Render(result.ReleaseURL))
	}
	fmt.Fprintln(w)
}

func (c *Checker) latestRelease(ctx context.Context) (tag, url string, err error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.APIBase, "/"), GitHubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", err
	}
	tag = gjson.GetBytes(body, "tag_name").String()
	if tag == "" {
		return "", "", fmt.Errorf("release has no tag")
	}
	return tag, gjson.GetBytes(body, "html_url").String(), nil
}

func (c *Checker) markerPath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, ".last-update-check")
}

func (c *Checker) checkedRecently() bool {
	info, err := os.Stat(c.markerPath())
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < CheckInterval
}

func (c *Checker) markChecked() {
	path := c.markerPath()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		_ = os.WriteFile(path, nil, 0644)
	}
}

// isNewerVersion compares dot-separated numeric parts.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(latest, ".")
	currentParts := strings.Split(current, ".")

	for i := 0; i < len(latestParts) && i < len(currentParts); i++ {
		l := parseVersionPart(latestParts[i])
		c := parseVersionPart(currentParts[i])
		if l != c {
			return l > c
		}
	}
	return len(latestParts) > len(currentParts)
}

// parseVersionPart extracts a number from a version part ("1" from "1-beta").
func parseVersionPart(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}
