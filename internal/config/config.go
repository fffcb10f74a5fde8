// Package config loads hookrunner settings: where the container hook
// lives, how to run it, and where its response files go.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-directory config file.
const FileName = ".hookrunner.yaml"

// EnvFileName is the optional dotenv file loaded next to FileName.
const EnvFileName = ".env"

// Config holds all configuration for hookrunner.
// It is immutable after creation via LoadConfig().
type Config struct {
	// Hook locates and configures the container hook
	Hook HookConfig `yaml:"hook"`

	// TempDir is where the hook_responses folder is created
	TempDir string `yaml:"temp_dir"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// HookConfig controls how the hook is invoked.
type HookConfig struct {
	// Path is the hook index file. Relative paths are resolved from the
	// config directory.
	Path string `yaml:"path"`

	// Interpreter runs Path (e.g. "node"). Empty runs Path directly.
	Interpreter string `yaml:"interpreter"`

	// Env is extra environment passed to the hook process
	Env map[string]string `yaml:"env,omitempty"`
}

// LoadConfig loads configuration from dir.
// It applies defaults, then the config file, then the dotenv file, then
// environment overrides, then validates.
//
// Variables already set in the process environment win over the dotenv
// file.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	// Try to load config file (optional)
	configPath := filepath.Join(dir, FileName)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := loadDotenv(filepath.Join(dir, EnvFileName)); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if cfg.Hook.Path != "" && !filepath.IsAbs(cfg.Hook.Path) {
		cfg.Hook.Path = filepath.Join(dir, cfg.Hook.Path)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// loadDotenv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", EnvFileName, err)
	}
	return nil
}
