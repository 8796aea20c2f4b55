package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/flagx"
	"github.com/dmitrijs2005/sportclub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value alone.
type JsonConfig struct {
	APIBaseURL           string          `json:"api_url"`
	DatabasePath         string          `json:"database"`
	Ephemeral            *bool           `json:"ephemeral"`
	PollInterval         *timex.Duration `json:"poll_interval"`
	NotificationDuration *timex.Duration `json:"notification_duration"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	Language             string          `json:"language"`
	LogLevel             string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config in args. No
// flag means no file.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.NotificationDuration != nil {
		cfg.NotificationDuration = time.Duration(jc.NotificationDuration.Duration)
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.Language != "" {
		cfg.Language = jc.Language
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
