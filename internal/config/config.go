// Package config loads the hello-server settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidWorkers Returned by Validate if workers < 1.
	ErrInvalidWorkers = errors.New("workers must be >= 1")

	// ErrMissingAddr Returned by Validate if no listen address is set.
	ErrMissingAddr = errors.New("addr is required")
)

// Config is the hello-server configuration.
type Config struct {
	Workers     int    `yaml:"workers"`
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	SleepDelay  string `yaml:"sleep_delay"`

	// MaxRequests stops the server after that many connections, 0 means serve forever.
	MaxRequests int `yaml:"max_requests"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Workers:    4,
		Addr:       "127.0.0.1:7878",
		LogLevel:   "info",
		SleepDelay: "5s",
	}
}

// Load reads the YAML file at path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Addr == "" {
		return ErrMissingAddr
	}
	if c.MaxRequests < 0 {
		return fmt.Errorf("invalid max_requests %d: must be >= 0", c.MaxRequests)
	}
	if _, err := c.Delay(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Delay is how long the /sleep route sleeps.
func (c Config) Delay() (time.Duration, error) {
	if c.SleepDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SleepDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid sleep_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid sleep_delay %s: must be >= 0", d)
	}
	return d, nil
}

// Level parses log_level, an empty level is info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}
