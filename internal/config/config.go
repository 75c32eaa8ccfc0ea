// Package config loads weekplan settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/weekplan/internal/core"
	"github.com/dhabedank/weekplan/internal/grid"
)

// FileName is the config file looked up in the working and home directories.
const FileName = ".weekplan.yaml"

// Config is the full application configuration.
type Config struct {
	// RelayURL is where the client sends generation and calendar requests.
	RelayURL string `yaml:"relay_url"`
	// Listen is the relay's HTTP listen address.
	Listen string `yaml:"listen"`
	// FrontendURL is where the OAuth callback redirects after success.
	FrontendURL string `yaml:"frontend_url"`

	ScheduleModel string `yaml:"schedule_model"`
	FeedbackModel string `yaml:"feedback_model"`
	// Provider selects the relay's backend: auto, claude-cli, codex-cli, anthropic-api.
	Provider  string `yaml:"provider"`
	PreferCLI bool   `yaml:"prefer_cli"`
	MaxTokens int    `yaml:"max_tokens"`

	// WeekStart is "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start"`
	// Timezone is an IANA name; empty means the system zone.
	Timezone         string `yaml:"timezone"`
	VisibleStartHour int    `yaml:"visible_start_hour"`
	VisibleEndHour   int    `yaml:"visible_end_hour"`
	TopTasks         int    `yaml:"top_tasks"`
	// RequireAllDays rejects generated schedules missing any day key.
	RequireAllDays bool `yaml:"require_all_days"`

	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`

	// ICSPath is an optional calendar file imported by "calendar import".
	ICSPath string `yaml:"ics_path,omitempty"`
	// SyncCron refreshes the relay's event cache on a cron schedule.
	SyncCron string `yaml:"sync_cron,omitempty"`

	// Secrets come from the environment or .env, never the YAML file.
	AnthropicAPIKey    string `yaml:"-"`
	GoogleClientID     string `yaml:"-"`
	GoogleClientSecret string `yaml:"-"`
	GoogleRedirectURL  string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RelayURL:         "http://localhost:3001",
		Listen:           "127.0.0.1:3001",
		FrontendURL:      "http://localhost:3001/auth/status",
		ScheduleModel:    "claude-sonnet-4-5-20250929",
		FeedbackModel:    "claude-haiku-4-5-20251001",
		Provider:         "auto",
		PreferCLI:        true,
		MaxTokens:        4096,
		WeekStart:        "sunday",
		VisibleStartHour: 7,
		VisibleEndHour:   24,
		TopTasks:         core.DefaultTopTasks,
		DBPath:           defaultDBPath(),
		LogLevel:         "info",
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "weekplan.db"
	}
	return filepath.Join(home, ".weekplan", "weekplan.db")
}

// Normalize fills zero values with defaults and repairs invalid ones.
func (c *Config) Normalize() {
	d := Default()
	if c.RelayURL == "" {
		c.RelayURL = d.RelayURL
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.FrontendURL == "" {
		c.FrontendURL = d.FrontendURL
	}
	if c.ScheduleModel == "" {
		c.ScheduleModel = d.ScheduleModel
	}
	if c.FeedbackModel == "" {
		c.FeedbackModel = c.ScheduleModel
	}
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if _, err := core.ParseWeekStart(c.WeekStart); err != nil || c.WeekStart == "" {
		c.WeekStart = d.WeekStart
	}
	if c.VisibleStartHour == 0 && c.VisibleEndHour == 0 {
		c.VisibleStartHour, c.VisibleEndHour = d.VisibleStartHour, d.VisibleEndHour
	}
	if c.Window().Validate() != nil {
		c.VisibleStartHour, c.VisibleEndHour = d.VisibleStartHour, d.VisibleEndHour
	}
	if c.TopTasks <= 0 {
		c.TopTasks = d.TopTasks
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Window returns the visible grid window.
func (c *Config) Window() grid.Window {
	return grid.Window{StartHour: c.VisibleStartHour, EndHour: c.VisibleEndHour}
}

// WeekStartDay returns the configured first weekday.
func (c *Config) WeekStartDay() time.Weekday {
	wd, err := core.ParseWeekStart(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// Location resolves Timezone, falling back to the system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Find returns the config file to use: explicit path, ./.weekplan.yaml, then
// ~/.weekplan.yaml. It returns "" when none exists.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if p := HomePath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// HomePath is ~/.weekplan.yaml, or "" if the home directory is unknown.
func HomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads path (if non-empty and present), applies .env and environment
// secrets, and normalizes. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	c.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if v := os.Getenv("WEEKPLAN_RELAY_URL"); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv("WEEKPLAN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Save writes cfg atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".weekplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
