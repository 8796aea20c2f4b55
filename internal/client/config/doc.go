// Package config loads runtime configuration for the sportclub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, with an optional .env file underneath it (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    base URL of the REST API
//	-d string    path of the local SQLite database
//	-i int       credential poll interval (seconds)
//	-l string    interface language (en, he, ar, es)
//	-ephemeral   keep everything in memory, nothing is written to disk
//	-v           debug logging
//
// Environment
//
//	SPORTCLUB_API_URL, SPORTCLUB_DB, SPORTCLUB_LANGUAGE,
//	SPORTCLUB_POLL_INTERVAL (duration, e.g. "5s"), SPORTCLUB_LOG_LEVEL
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "5s"
// or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:4000/api",
//	  "database": "sportclub.db",
//	  "poll_interval": "5s",
//	  "notification_duration": "8s",
//	  "request_timeout": "15s",
//	  "language": "he",
//	  "log_level": "info"
//	}
package config
