// Package config loads runtime configuration for the codeauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the authentication API
//	-t int      request timeout (seconds)
//	-d int      verification code cooldown (seconds)
//	-s string   session mirror SQLite DSN
//	-l string   log level
//
// Environment
//
//	CODEAUTH_API_BASE_URL    overrides ServerBaseURL
//	CODEAUTH_LOG_LEVEL       overrides LogLevel
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds. Missing keys keep their previous value:
//
//	{
//	  "server_base_url": "https://auth.example.org",
//	  "request_timeout": "10s",
//	  "code_cooldown": "60s",
//	  "session_dsn": "file:codeauth-session?mode=memory&cache=shared",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
