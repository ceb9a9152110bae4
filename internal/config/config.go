// Package config loads nutricalc settings from layered YAML files, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Env var names read by Apply.
const (
	EnvCatalog           = "NUTRICALC_CATALOG"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvLogLevel          = "NUTRICALC_LOG_LEVEL"
	EnvLogFile           = "NUTRICALC_LOG_FILE"
	EnvProductUnitsExact = "NUTRICALC_PRODUCT_UNITS_EXACT"
	EnvNoColor           = "NO_COLOR"
)

// DefaultLogFile keeps log lines out of the interactive shell.
const DefaultLogFile = ".nutricalc-logs/nutricalc.log"

// Config represents the structure of nutricalc.yaml.
//
//	catalog: foods.yaml
//	database_url: postgres://localhost/nutricalc
//	log_level: verbose
//	product_units_exact: true
type Config struct {
	// Catalog is a YAML catalog file. When neither Catalog nor DatabaseURL
	// is set the built-in catalog is used.
	Catalog     string `yaml:"catalog"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`
	// LogFile is a path, or "stderr".
	LogFile string `yaml:"log_file"`
	NoColor bool   `yaml:"no_color"`
	// ProductUnitsExact counts a product's values once per unit instead of
	// scaling them by units/100.
	ProductUnitsExact bool `yaml:"product_units_exact"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		LogLevel: "normal",
		LogFile:  DefaultLogFile,
	}
}

// Load reads and parses a YAML config from the given path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("yaml config parsing error: %w", err)
	}

	return &c, nil
}

// Resolve builds the effective config. An explicit path is loaded alone;
// otherwise the standard locations are merged over the defaults. A .env
// file in the working directory is loaded first, then environment
// variables override file values.
func Resolve(explicit string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg := Default()
	if explicit != "" {
		c, err := Load(explicit)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", explicit, err)
		}
		mergeInto(cfg, c)
	} else {
		for _, p := range discoverPaths() {
			c, err := Load(p)
			if err != nil {
				return nil, fmt.Errorf("failed loading %s: %w", p, err)
			}
			mergeInto(cfg, c)
		}
	}

	if err := Apply(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overrides cfg with any set environment variables.
func Apply(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvCatalog); v != "" {
		cfg.Catalog = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if getenv(EnvNoColor) != "" {
		cfg.NoColor = true
	}
	if v := getenv(EnvProductUnitsExact); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvProductUnitsExact, err)
		}
		cfg.ProductUnitsExact = b
	}
	return nil
}

// discoverPaths returns existing config paths in merge order:
//  1. $HOME/.config/nutricalc/config.yaml
//  2. $XDG_CONFIG_HOME/nutricalc/config.yaml
//  3. ./nutricalc.yaml
func discoverPaths() []string {
	var out []string
	if home, _ := os.UserHomeDir(); home != "" {
		p := filepath.Join(home, ".config", "nutricalc", "config.yaml")
		if exists(p) {
			out = append(out, p)
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		p := filepath.Join(xdg, "nutricalc", "config.yaml")
		if exists(p) {
			out = append(out, p)
		}
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		p := filepath.Join(cwd, "nutricalc.yaml")
		if exists(p) {
			out = append(out, p)
		}
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// mergeInto copies non-zero values from src into dst.
func mergeInto(dst, src *Config) {
	if src == nil || dst == nil {
		return
	}
	if src.Catalog != "" {
		dst.Catalog = src.Catalog
	}
	if src.DatabaseURL != "" {
		dst.DatabaseURL = src.DatabaseURL
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.NoColor {
		dst.NoColor = true
	}
	if src.ProductUnitsExact {
		dst.ProductUnitsExact = true
	}
}
