// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Identity IdentityConfig `yaml:"identity"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StoreConfig defines the remote document-store gateway settings.
type StoreConfig struct {
	BaseURL    string          `yaml:"base_url"`
	APIKey     string          `yaml:"api_key"`
	DataSource string          `yaml:"data_source"`
	Database   string          `yaml:"database"`
	Collection string          `yaml:"collection"`
	Timeout    time.Duration   `yaml:"timeout"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines gateway request throttling.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// IdentityConfig defines the external identity provider settings.
type IdentityConfig struct {
	ClientID  string `yaml:"client_id"`
	Authority string `yaml:"authority"`
	GraphURL  string `yaml:"graph_url"`
}

// SessionConfig defines where the signed-in session is persisted.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	s := &cfg.Store
	if s.Collection == "" {
		s.Collection = "listings"
	}
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 5.0
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 10
	}
	if s.RateLimit.DailyLimit == 0 {
		s.RateLimit.DailyLimit = 5000
	}

	i := &cfg.Identity
	if i.Authority == "" {
		i.Authority = "https://login.microsoftonline.com/common/oauth2/v2.0"
	}
	if i.GraphURL == "" {
		i.GraphURL = "https://graph.microsoft.com/v1.0/me"
	}

	if cfg.Session.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Session.Path = filepath.Join(home, ".huskymart", "session.yaml")
		}
	}

	l := &cfg.Logging
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	if cfg.Store.BaseURL == "" {
		return errors.New("store.base_url is required")
	}
	if cfg.Store.APIKey == "" {
		return errors.New("store.api_key is required")
	}
	if cfg.Store.DataSource == "" {
		return errors.New("store.data_source is required")
	}
	if cfg.Store.Database == "" {
		return errors.New("store.database is required")
	}
	if cfg.Identity.ClientID == "" {
		return errors.New("identity.client_id is required")
	}
	return nil
}
