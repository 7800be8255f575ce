// Package config loads autotypo settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/autotypo/internal/correction"
)

// Config holds the settings shared by every command.
type Config struct {
	// RecordPath is the shared correction record.
	RecordPath string `yaml:"record_path"`

	// Dictionary is an optional SQLite word list used to fold case.
	Dictionary string `yaml:"dictionary,omitempty"`

	// AllTimeThreshold is the manual count at which a correction becomes
	// persistently active.
	AllTimeThreshold uint `yaml:"all_time_threshold"`

	// SessionThreshold is the lower manual count at which a correction is
	// active for the current run only.
	SessionThreshold uint `yaml:"session_threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RecordPath:       filepath.Join("~", ".local", "share", "autotypo", "corrections"),
		AllTimeThreshold: correction.DefaultAllTimeThreshold,
		SessionThreshold: correction.DefaultSessionThreshold,
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("~", ".config", "autotypo", "config.yaml")
	}
	return filepath.Join(dir, "autotypo", "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error when allowMissing is set; the defaults are returned.
func Load(path string, allowMissing bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return cfg.expand()
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// Strict field validation catches misspelled keys.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.expand()
}

// Thresholds returns the promotion thresholds.
func (c Config) Thresholds() correction.Thresholds {
	return correction.Thresholds{
		AllTime: c.AllTimeThreshold,
		Session: c.SessionThreshold,
	}
}

// Validate checks required fields and threshold bounds.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RecordPath) == "" {
		return fmt.Errorf("record_path is required")
	}
	return c.Thresholds().Validate()
}

// Warnings lists settings that are accepted but discouraged.
func (c Config) Warnings() []string {
	return c.Thresholds().Warnings()
}

func (c Config) expand() (Config, error) {
	var err error
	if c.RecordPath, err = ExpandHome(c.RecordPath); err != nil {
		return Config{}, err
	}
	if c.Dictionary, err = ExpandHome(c.Dictionary); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
