// SPDX-License-Identifier: EPL-2.0

// Package config loads the dvdawm YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidResample  = errors.New("invalid resample rate")
	ErrInvalidWorkers   = errors.New("invalid worker count")
	ErrInvalidMemLimit  = errors.New("invalid memory limit")
	ErrMissingLogFormat = errors.New("detection log name pattern is empty")
)

// Config is the file layout. Zero values fall back to Default.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Output    string          `yaml:"output"` // text, json or "" (text on a terminal, json otherwise)
	Trace     bool            `yaml:"trace"`
	Downmix   bool            `yaml:"downmix"`
	Resample  int             `yaml:"resample"`
	Workers   int             `yaml:"workers"`
	MemLimit  string          `yaml:"memory_limit"` // "64MiB", "0" for none
	Detection DetectionConfig `yaml:"detection_log"`

	memBytes uint64
}

// LogConfig selects the diagnostic logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text, json, logfmt
}

// DetectionConfig enables the daily CSV detection log.
type DetectionConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Workers:   runtime.NumCPU(),
		MemLimit:  "0",
		Detection: DetectionConfig{Pattern: "dvdawm-%Y-%m-%d.csv"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate normalizes the configuration and checks its values.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	case "":
		c.Log.Level = "info"
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json", "logfmt":
	case "":
		c.Log.Format = "text"
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidFormat, c.Log.Format)
	}

	switch c.Output {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: output %q", ErrInvalidFormat, c.Output)
	}

	switch c.Resample {
	case 0, 44100, 48000, 88200, 96000, 176400, 192000:
	default:
		return fmt.Errorf("%w: %d Hz", ErrInvalidResample, c.Resample)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}

	c.memBytes = 0
	if s := strings.TrimSpace(c.MemLimit); s != "" && s != "0" {
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMemLimit, err)
		}
		c.memBytes = n
	}

	if c.Detection.Dir != "" && strings.TrimSpace(c.Detection.Pattern) == "" {
		return ErrMissingLogFormat
	}

	return nil
}

// MemoryLimit returns the parsed memory limit in bytes, 0 for none.
func (c Config) MemoryLimit() uint64 { return c.memBytes }
