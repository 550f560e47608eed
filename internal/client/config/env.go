package config

import "os"

const (
	EnvServerBaseURL = "CODEAUTH_API_BASE_URL"
	EnvLogLevel      = "CODEAUTH_LOG_LEVEL"
)

// parseEnv overlays cfg with non-empty environment variables.
func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvServerBaseURL); ok && v != "" {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}
