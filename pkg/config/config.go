// Package config loads LETREC runtime configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the project-level configuration file name.
const ProjectFile = ".letrec.yaml"

// Config holds runtime settings.
type Config struct {
	RunID    string `yaml:"runId,omitempty"`
	Trace    bool   `yaml:"trace,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{RunID: "local", LogLevel: "info"}
}

// Load reads configuration from the project and user config files.
// Precedence: project (.letrec.yaml) → user (~/.letrec/config.yaml) → defaults.
// The returned path is empty when the defaults were used.
func Load(projectDir string) (*Config, string, error) {
	projectPath := filepath.Join(projectDir, ProjectFile)
	cfg, err := loadFile(projectPath)
	if err == nil {
		return cfg, projectPath, nil
	}
	if !os.IsNotExist(err) {
		return nil, "", err
	}

	homeDir, herr := os.UserHomeDir()
	if herr == nil {
		userPath := filepath.Join(homeDir, ".letrec", "config.yaml")
		cfg, err := loadFile(userPath)
		if err == nil {
			return cfg, userPath, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", err
		}
	}

	return Default(), "", nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration. Unset fields keep their defaults and
// unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid logLevel %q", c.LogLevel)
	}
	return level, nil
}
