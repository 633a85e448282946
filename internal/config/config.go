// Package config provides unified configuration loading for scandesk.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for scandesk.
type Config struct {
	Store         StoreConfig         `yaml:"store"`
	Capture       CaptureConfig       `yaml:"capture"`
	Thumbnail     ThumbnailConfig     `yaml:"thumbnail"`
	Export        ExportConfig        `yaml:"export"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StoreConfig holds the on-device document store settings.
type StoreConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// CaptureConfig holds capture and page-encoding settings.
type CaptureConfig struct {
	// Quality is the JPEG quality factor, in (0, 1].
	Quality              float64 `yaml:"quality"`
	MaxConcurrentEncodes int     `yaml:"max_concurrent_encodes"`
	DefaultTitle         string  `yaml:"default_title"`
}

// ThumbnailConfig holds the bounding box for list thumbnails.
type ThumbnailConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ExportConfig holds PDF export settings.
type ExportConfig struct {
	// TempDir is where export working directories are created.
	// Empty means the system temp directory.
	TempDir string `yaml:"temp_dir"`
	// Verify re-opens the written PDF and checks the page count
	// before hand-off.
	Verify bool `yaml:"verify"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:         defaultStorePath(),
			MaxOpenConns: 1,
			JournalMode:  "WAL",
		},
		Capture: CaptureConfig{
			Quality:              0.65,
			MaxConcurrentEncodes: 4,
			DefaultTitle:         "Scanned document",
		},
		Thumbnail: ThumbnailConfig{
			Width:  150,
			Height: 100,
		},
		Export: ExportConfig{
			TempDir: "",
			Verify:  false,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// defaultStorePath places the library database under the user home dir,
// falling back to the working directory when home is unknown.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scandesk.db"
	}
	return filepath.Join(home, ".scandesk", "scandesk.db")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}

	if c.Capture.Quality <= 0 || c.Capture.Quality > 1 {
		return fmt.Errorf("capture quality must be in (0, 1], got %v", c.Capture.Quality)
	}

	if c.Capture.MaxConcurrentEncodes < 1 {
		return fmt.Errorf("max_concurrent_encodes must be at least 1")
	}

	if c.Capture.DefaultTitle == "" {
		return fmt.Errorf("default_title must not be empty")
	}

	if c.Thumbnail.Width < 1 || c.Thumbnail.Height < 1 {
		return fmt.Errorf("thumbnail box must be positive, got %dx%d", c.Thumbnail.Width, c.Thumbnail.Height)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCANDESK_DB"); v != "" {
		cfg.Store.Path = v
	}

	if v := os.Getenv("SCANDESK_QUALITY"); v != "" {
		if q, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Capture.Quality = q
		}
	}

	if v := os.Getenv("SCANDESK_EXPORT_DIR"); v != "" {
		cfg.Export.TempDir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
