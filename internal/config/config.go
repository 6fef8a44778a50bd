package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultListen         = "127.0.0.1:8080"
	defaultEvents         = "data/events.json"
	defaultMediaDir       = "public"
	defaultCacheDir       = "./cache/sources"
	defaultExportDir      = "./cache/slides"
	defaultLocale         = "pt-BR"
	defaultTitle          = "Nossa Estória inicial que nunca vai acabar"
	defaultBadge          = "Vi&Vic"
	defaultTransitionMS   = 300
	defaultDateLayout     = "02/01/2006"
	defaultMaxOccurrences = 500
)

// CaptureConfig controls headless Chromium slide export.
type CaptureConfig struct {
	Width      int `yaml:"width" json:"width" env:"WIDTH"`
	Height     int `yaml:"height" json:"height" env:"HEIGHT"`
	TimeoutSec int `yaml:"timeout_sec" json:"timeout_sec" env:"TIMEOUT_SEC"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen" env:"LISTEN"`

	// Events is the event source: a local path or an http(s) URL ending in
	// .json, .yaml/.yml or .ics.
	Events string `yaml:"events" json:"events" env:"EVENTS"`

	// MediaDir holds the photos/videos referenced by the events' image field.
	MediaDir string `yaml:"media_dir" json:"media_dir" env:"MEDIA_DIR"`

	// CacheDir stores remote event sources (body + ETag metadata).
	CacheDir string `yaml:"cache_dir" json:"cache_dir" env:"CACHE_DIR"`

	// ExportDir receives slide-NNN.png files from -export.
	ExportDir string `yaml:"export_dir" json:"export_dir" env:"EXPORT_DIR"`

	// Locale is the default UI language ("pt-BR" or "en-US").
	Locale string `yaml:"locale" json:"locale" env:"LOCALE"`

	Title string `yaml:"title" json:"title" env:"TITLE"`
	Badge string `yaml:"badge" json:"badge" env:"BADGE"`

	// TransitionMS is the fade delay between a navigation request and the
	// committed index change.
	TransitionMS int `yaml:"transition_ms" json:"transition_ms" env:"TRANSITION_MS"`

	// DateLayout formats ICS event start dates into display strings.
	DateLayout string `yaml:"date_layout" json:"date_layout" env:"DATE_LAYOUT"`

	// ICSUntil bounds recurrence expansion of ICS sources (RFC3339 date,
	// empty = now).
	ICSUntil string `yaml:"ics_until" json:"ics_until" env:"ICS_UNTIL"`

	// MaxOccurrences caps recurrence expansion per ICS event.
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences" env:"MAX_OCCURRENCES"`

	// Autoplay is a cron spec (e.g. "@every 15s" or "*/1 * * * *") that
	// advances the slideshow. Empty disables kiosk mode.
	Autoplay string `yaml:"autoplay" json:"autoplay" env:"AUTOPLAY"`

	// AutoplayLoop returns to the first event after the last one.
	AutoplayLoop bool `yaml:"autoplay_loop" json:"autoplay_loop" env:"AUTOPLAY_LOOP"`

	Capture CaptureConfig `yaml:"capture" json:"capture" envPrefix:"CAPTURE_"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:         defaultListen,
		Events:         defaultEvents,
		MediaDir:       defaultMediaDir,
		CacheDir:       defaultCacheDir,
		ExportDir:      defaultExportDir,
		Locale:         defaultLocale,
		Title:          defaultTitle,
		Badge:          defaultBadge,
		TransitionMS:   defaultTransitionMS,
		DateLayout:     defaultDateLayout,
		MaxOccurrences: defaultMaxOccurrences,
		AutoplayLoop:   true,
		Capture: CaptureConfig{
			Width:      1280,
			Height:     1600,
			TimeoutSec: 30,
		},
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Events == "" {
		c.Events = defaultEvents
	}
	if c.MediaDir == "" {
		c.MediaDir = defaultMediaDir
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.ExportDir == "" {
		c.ExportDir = defaultExportDir
	}
	switch c.Locale {
	case "pt-BR", "en-US":
	default:
		// Unknown value; the catalogs only ship these two.
		c.Locale = defaultLocale
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.TransitionMS < 0 {
		c.TransitionMS = defaultTransitionMS
	}
	if c.DateLayout == "" {
		c.DateLayout = defaultDateLayout
	}
	if c.MaxOccurrences <= 0 {
		c.MaxOccurrences = defaultMaxOccurrences
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = 1280
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = 1600
	}
	if c.Capture.TimeoutSec <= 0 {
		c.Capture.TimeoutSec = 30
	}
}

// TransitionDelay returns TransitionMS as a duration.
func (c *Config) TransitionDelay() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// Until parses ICSUntil, returning now when it is empty or malformed.
func (c *Config) Until(now time.Time) time.Time {
	if c.ICSUntil == "" {
		return now
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, c.ICSUntil); err == nil {
			return t
		}
	}
	return now
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - If the file exists, it is unmarshalled and normalized.
//
// Environment overrides (see ApplyEnv) are not applied here.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv loads an optional .env file and overlays STORYTIMELINE_*
// environment variables onto cfg.
func ApplyEnv(cfg *Config, dotenvPath string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "STORYTIMELINE_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.Normalize()
	return nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
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

	tmp, err := os.CreateTemp(dir, ".storytimeline-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
