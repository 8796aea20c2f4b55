package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds runtime settings for the sportclub CLI.
type Config struct {
	APIBaseURL           string
	DatabasePath         string
	Ephemeral            bool
	PollInterval         time.Duration
	NotificationDuration time.Duration
	RequestTimeout       time.Duration
	Language             string
	LogLevel             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:4000/api"
	c.DatabasePath = "sportclub.db"
	c.Ephemeral = false
	c.PollInterval = 5 * time.Second
	c.NotificationDuration = 8 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.Language = "he"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and finally args (os.Args[1:] in production). Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	lookup, err := envLookup(".env")
	if err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api url is empty")
	}
	if !c.Ephemeral && c.DatabasePath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
