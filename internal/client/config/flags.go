package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/codeauth/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed below are considered; flagx.FilterArgs drops the
// rest so that -c/-config does not trip this FlagSet.
//
//	-a string   base URL of the authentication API
//	-t int      request timeout in seconds
//	-d int      verification code cooldown in seconds
//	-s string   session mirror DSN
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-s", "-l"})

	fs := flag.NewFlagSet("codeauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the authentication API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	cooldown := fs.Int("d", int(cfg.CodeCooldown.Seconds()), "verification code cooldown (in seconds)")
	fs.StringVar(&cfg.SessionDSN, "s", cfg.SessionDSN, "session mirror SQLite DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Second-granular flags must not truncate sub-second values loaded from JSON.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "d":
			cfg.CodeCooldown = time.Duration(*cooldown) * time.Second
		}
	})
	return nil
}
