package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings for the codeauth CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the authentication API (scheme + host).
//   - RequestTimeout: per-request HTTP timeout.
//   - CodeCooldown: minimum interval between two verification-code requests
//     of the same flow.
//   - SessionDSN: SQLite DSN of the session mirror. The default is an
//     in-memory database, so nothing survives the process.
//   - LogLevel / LogFormat: slog level (debug, info, warn, error) and
//     handler format (text, json).
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	CodeCooldown   time.Duration
	SessionDSN     string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.CodeCooldown = 60 * time.Second
	c.SessionDSN = "file:codeauth-session?mode=memory&cache=shared"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil {
		return fmt.Errorf("invalid server base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server base url %q: scheme must be http or https", c.ServerBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server base url %q: missing host", c.ServerBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.CodeCooldown < time.Second {
		return errors.New("code cooldown must be at least one second")
	}
	if c.SessionDSN == "" {
		return errors.New("session dsn must not be empty")
	}
	return nil
}

// LoadConfig constructs a Config from args (usually os.Args[1:]). It applies
// defaults, then overlays values from JSON (if -c/-config is present), the
// environment and command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
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
