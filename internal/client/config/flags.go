package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/sportclub/internal/flagx"
)

var flagSpec = flagx.Spec{
	Values: []string{"-a", "-d", "-i", "-l"},
	Bools:  []string{"-ephemeral", "-v"},
}

// parseFlags populates cfg from the flags in args it owns; everything else
// in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("sportclub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	poll := fs.Int("i", int(cfg.PollInterval.Seconds()), "credential poll interval (in seconds)")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "interface language")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "keep state in memory only")
	debug := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(flagSpec.Filter(args)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.PollInterval = time.Duration(*poll) * time.Second
		}
	})
	if *debug {
		cfg.LogLevel = "debug"
	}
	return nil
}
