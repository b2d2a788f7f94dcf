// Package config loads histlens configuration from YAML under
// ~/.histlens/. Absent keys keep their defaults; tilde paths expand at
// load time.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".histlens"
	DefaultConfigFile = "config.yaml"
)

type Config struct {
	// HistoryPaths lists the shell history files to ingest. Empty means
	// the standard bash/zsh/fish locations.
	HistoryPaths []string `yaml:"history_paths"`

	// Database is the SQLite file holding imported commands.
	Database string `yaml:"database"`

	// DangerThreshold drives report highlighting only; the detector's
	// dangerous boundary is fixed.
	DangerThreshold float64 `yaml:"danger_threshold"`

	// RedactionEnabled masks credentials in command text before storage.
	RedactionEnabled bool `yaml:"redaction_enabled"`

	// AutoImport ingests history files before every report command.
	AutoImport bool `yaml:"auto_import"`

	Logging LoggingConfig `yaml:"logging"`

	// AuditLog is the JSONL trail of import and report runs.
	AuditLog string `yaml:"audit_log"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration. Paths keep their tilde
// form; Load expands them.
func Default() *Config {
	return &Config{
		HistoryPaths: []string{
			"~/.bash_history",
			"~/.zsh_history",
			"~/.local/share/fish/fish_history",
		},
		Database:         "~/.histlens/histlens.db",
		DangerThreshold:  0.7,
		RedactionEnabled: true,
		AutoImport:       false,
		Logging:          LoggingConfig{Level: "info"},
		AuditLog:         "~/.histlens/audit.jsonl",
	}
}

// DefaultPath returns ~/.histlens/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultConfigDir, DefaultConfigFile)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// Load reads the configuration at path, merging the file over the
// defaults. A missing file is not an error; the defaults apply. All
// paths in the result are tilde-expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.expand()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.HistoryPaths) == 0 {
		cfg.HistoryPaths = Default().HistoryPaths
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	cfg.expand()
	return cfg, nil
}

// WriteDefault writes the default configuration to path. An existing
// file is left untouched and reported as an error.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) expand() {
	c.Database = ExpandPath(c.Database)
	c.AuditLog = ExpandPath(c.AuditLog)
	for i, p := range c.HistoryPaths {
		c.HistoryPaths[i] = ExpandPath(p)
	}
}

// ExpandPath resolves a leading tilde against the current home
// directory. Paths without one pass through unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
