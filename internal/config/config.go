// Package config loads shelf configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config is the resolved shelf configuration.
type Config struct {
	// DataDir holds the sqlite database. Default: ~/.local/share/shelf.
	DataDir string       `koanf:"data_dir"`
	Log     LogConfig    `koanf:"log"`
	Search  SearchConfig `koanf:"search"`
}

type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `koanf:"level"`
	// File receives log output; the TUI owns the terminal, so logs never
	// go to stdout. Empty means <data_dir>/shelf.log.
	File string `koanf:"file"`
}

type SearchConfig struct {
	// IncludeURLIDs also matches the search query against chat slugs.
	IncludeURLIDs bool `koanf:"include_url_ids"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
	}
}

// DefaultLogFile is the log path used when none is configured.
func DefaultLogFile(dataDir string) string {
	return filepath.Join(dataDir, "shelf.log")
}

// DefaultPath is ~/.config/shelf/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "shelf", "config.yaml"), nil
}

// Load reads the YAML file at path (optional; missing file is fine) and
// applies SHELF_* environment overrides on top.
//
// Precedence (highest first):
//  1. Environment variables (SHELF_DATA_DIR, SHELF_LOG_LEVEL, …)
//  2. YAML config file
//  3. Defaults
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// SHELF_LOG_LEVEL -> log.level, SHELF_DATA_DIR -> data_dir.
	if err := k.Load(env.Provider("SHELF_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "SHELF_"))
		for _, section := range []string{"log", "search"} {
			if strings.HasPrefix(key, section+"_") {
				return section + "." + strings.TrimPrefix(key, section+"_")
			}
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.DataDir) == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, ".local", "share", "shelf")
		} else {
			cfg.DataDir = ".shelf"
		}
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.File) == "" {
		cfg.Log.File = DefaultLogFile(cfg.DataDir)
	}
}
