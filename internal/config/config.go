// Package config loads parq configuration with a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags (applied by the CLI)
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from defaults, a YAML file and the
// environment. If configPath is provided, that file must exist. Otherwise
// the first existing file among these is used:
//   - .parq.yaml (current directory)
//   - .parq.yml (current directory)
//   - $HOME/.config/parq/config.yaml
//
// Finding no file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".parq.yaml", ".parq.yml"}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", "parq", "config.yaml"))
	}
	return paths
}

// loadConfigFile reads and parses a YAML config file. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies PARQ_* environment variables.
func applyEnvOverrides(cfg *Config) error {
	if level := os.Getenv("PARQ_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if compression := os.Getenv("PARQ_COMPRESSION"); compression != "" {
		cfg.Output.Compression = compression
	}
	if sanitize := os.Getenv("PARQ_CSV_SANITIZE"); sanitize != "" {
		b, err := parseBool(sanitize)
		if err != nil {
			return fmt.Errorf("invalid PARQ_CSV_SANITIZE: %w", err)
		}
		cfg.CSV.Sanitize = b
	}
	if maxFiles := os.Getenv("PARQ_MAX_FILES"); maxFiles != "" {
		n, err := parsePositiveInt(maxFiles)
		if err != nil {
			return fmt.Errorf("invalid PARQ_MAX_FILES: %w", err)
		}
		cfg.Input.MaxFiles = n
	}
	return nil
}

// Validate checks enum values and limits.
func (c *Config) Validate() error {
	if c.Input.MaxFiles <= 0 {
		return fmt.Errorf("input.max_files must be positive, got: %d", c.Input.MaxFiles)
	}
	switch strings.ToLower(c.Output.Compression) {
	case "", "none", "gzip", "zstd", "lz4", "brotli", "auto":
	default:
		return fmt.Errorf("output.compression %q is not one of none, gzip, zstd, lz4, brotli, auto", c.Output.Compression)
	}
	switch strings.ToLower(c.CSV.LineEnding) {
	case "", "auto", "lf", "crlf":
	default:
		return fmt.Errorf("csv.line_ending %q is not one of auto, lf, crlf", c.CSV.LineEnding)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// UseCRLF reports whether CSV rows end with \r\n.
func (c CSVConfig) UseCRLF() bool {
	switch strings.ToLower(c.LineEnding) {
	case "crlf":
		return true
	case "lf":
		return false
	default:
		return runtime.GOOS == "windows"
	}
}

// SlogLevel converts the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Level)
	}
	return level, nil
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("failed to parse boolean from '%s': want true/false, yes/no, 1/0 or on/off", s)
}
