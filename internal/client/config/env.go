package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL       = "SPORTCLUB_API_URL"
	EnvDatabase     = "SPORTCLUB_DB"
	EnvLanguage     = "SPORTCLUB_LANGUAGE"
	EnvPollInterval = "SPORTCLUB_POLL_INTERVAL"
	EnvLogLevel     = "SPORTCLUB_LOG_LEVEL"
)

type lookupFunc func(key string) (string, bool)

// envLookup reads the process environment, falling back to the values in
// dotenv. A missing dotenv file is not an error.
func envLookup(dotenv string) (lookupFunc, error) {
	file := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// parseEnv overlays cfg with the SPORTCLUB_* variables that are set.
func parseEnv(cfg *Config, lookup lookupFunc) error {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvDatabase); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := lookup(EnvLanguage); ok && v != "" {
		cfg.Language = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvPollInterval); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		cfg.PollInterval = d
	}
	return nil
}
