package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Tools   ToolsConfig   `yaml:"tools"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
	Preview PreviewConfig `yaml:"preview"`
	Drive   DriveConfig   `yaml:"drive"`
}

// ToolsConfig pins external executables and extra search directories
type ToolsConfig struct {
	FFmpeg     string   `yaml:"ffmpeg"`
	FFprobe    string   `yaml:"ffprobe"`
	Mpv        string   `yaml:"mpv"`
	SearchDirs []string `yaml:"search_dirs,omitempty"`
}

// SessionConfig contains the preview session file location
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig contains zap logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// PreviewConfig contains playback settings for the preview tool
type PreviewConfig struct {
	LoopMarginMs int `yaml:"loop_margin_ms"`
	SeekStepMs   int `yaml:"seek_step_ms"`
}

// DriveConfig contains Google Drive upload settings
type DriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
}

// Defaults returns the configuration used when no file exists
func Defaults() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Preview: PreviewConfig{LoopMarginMs: 120, SeekStepMs: 1000},
	}
}

// DefaultPath returns ~/.config/video-cutter/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "video-cutter", "config.yaml")
}

// Load reads and parses the configuration from the specified YAML file.
// A missing file yields Defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields a partial file left empty
func (c *Config) applyDefaults() {
	d := Defaults()
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Preview.LoopMarginMs <= 0 {
		c.Preview.LoopMarginMs = d.Preview.LoopMarginMs
	}
	if c.Preview.SeekStepMs <= 0 {
		c.Preview.SeekStepMs = d.Preview.SeekStepMs
	}
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
