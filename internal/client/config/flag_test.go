package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090", "-t", "5", "-d", "30", "-s", "file:x.db", "-l", "debug"},
			expected: &Config{
				ServerBaseURL:  "http://127.0.0.1:9090",
				RequestTimeout: 5 * time.Second,
				CodeCooldown:   30 * time.Second,
				SessionDSN:     "file:x.db",
				LogLevel:       "debug",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", "http://h:1"},
			expected: &Config{ServerBaseURL: "http://h:1"},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, wantErr: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}

			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_KeepsSubSecondValuesWhenUnset(t *testing.T) {
	cfg := &Config{RequestTimeout: 1500 * time.Millisecond, CodeCooldown: 2500 * time.Millisecond}

	require.NoError(t, parseFlags(cfg, []string{"-a", "http://h:1"}))

	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.CodeCooldown)
}
