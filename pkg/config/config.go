// Package config loads runtime settings for the elements CLI.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
// Values are populated from .elements.yaml, ELEMENTS_* env vars, and CLI flags.
type Config struct {
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	GhostDepth     int           `mapstructure:"ghost_depth"`
	CircleSegments int           `mapstructure:"circle_segments"`
	EvalTimeout    time.Duration `mapstructure:"eval_timeout"`
	OutputFormat   string        `mapstructure:"output_format"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("ghost_depth", 3)
	viper.SetDefault("circle_segments", 64)
	viper.SetDefault("eval_timeout", 5*time.Second)
	viper.SetDefault("output_format", "yaml")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q: expected text or json", c.LogFormat)
	}
	switch c.OutputFormat {
	case "yaml", "json":
	default:
		return fmt.Errorf("output_format %q: expected yaml or json", c.OutputFormat)
	}
	if c.GhostDepth < 1 {
		return fmt.Errorf("ghost_depth %d: must be at least 1", c.GhostDepth)
	}
	if c.CircleSegments < 3 {
		return fmt.Errorf("circle_segments %d: must be at least 3", c.CircleSegments)
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("eval_timeout %s: must be positive", c.EvalTimeout)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger builds the logger the config asks for, writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
