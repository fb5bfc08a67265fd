// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ockhamtrading/stoploss/internal/types"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration.
type Config struct {
	Venue       VenueConfig       `yaml:"venue"`
	Custody     CustodyConfig     `yaml:"custody"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Notify      NotifyConfig      `yaml:"notify"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// VenueConfig holds venue connectivity settings.
type VenueConfig struct {
	Type               string `yaml:"type"` // paper | rest
	BaseURL            string `yaml:"base_url"`
	APIKey             string `yaml:"api_key"`
	TimeoutSec         int    `yaml:"timeout_sec"`
	MaxRetries         int    `yaml:"max_retries"`
	RateLimitPerSecond int    `yaml:"rate_limit_per_second"`
	RateLimitBurst     int    `yaml:"rate_limit_burst"`
}

// CustodyConfig holds custody settings.
type CustodyConfig struct {
	Type string `yaml:"type"` // memory
}

// PersistenceConfig holds persistence settings.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Type    string `yaml:"type"` // sqlite | postgres
	Path    string `yaml:"path"` // for sqlite
	DSN     string `yaml:"dsn"`  // for postgres
}

// NotifyConfig holds execution report notification settings.
type NotifyConfig struct {
	Log bool `yaml:"log"`
}

// MetricsConfig holds metrics server settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	var errs []string

	switch c.Venue.Type {
	case "", "paper":
		c.Venue.Type = "paper"
	case "rest":
		if c.Venue.BaseURL == "" {
			errs = append(errs, "venue.base_url is required for rest")
		}
	default:
		errs = append(errs, "venue.type must be 'paper' or 'rest'")
	}
	if c.Venue.TimeoutSec <= 0 {
		c.Venue.TimeoutSec = 10 // default
	}
	if c.Venue.MaxRetries < 0 {
		errs = append(errs, "venue.max_retries must not be negative")
	}
	if c.Venue.RateLimitPerSecond <= 0 {
		c.Venue.RateLimitPerSecond = 10 // default
	}
	if c.Venue.RateLimitBurst <= 0 {
		c.Venue.RateLimitBurst = c.Venue.RateLimitPerSecond
	}

	if c.Custody.Type == "" {
		c.Custody.Type = "memory"
	}
	if c.Custody.Type != "memory" {
		errs = append(errs, "custody.type must be 'memory'")
	}

	if c.Persistence.Enabled {
		if c.Persistence.Type != "sqlite" && c.Persistence.Type != "postgres" {
			errs = append(errs, "persistence.type must be 'sqlite' or 'postgres'")
		}
		if c.Persistence.Type == "sqlite" && c.Persistence.Path == "" {
			errs = append(errs, "persistence.path is required for sqlite")
		}
		if c.Persistence.Type == "postgres" && c.Persistence.DSN == "" {
			errs = append(errs, "persistence.dsn is required for postgres")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			errs = append(errs, "metrics.port must be a valid port")
		}
		if c.Metrics.Path == "" {
			c.Metrics.Path = "/metrics"
		}
	}

	switch c.Logging.Level {
	case "":
		c.Logging.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "logging.level must be debug, info, warn or error")
	}
	switch c.Logging.Format {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		errs = append(errs, "logging.format must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// VenueTimeout returns the venue request timeout.
func (c *Config) VenueTimeout() time.Duration {
	return time.Duration(c.Venue.TimeoutSec) * time.Second
}
