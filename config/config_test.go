package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "uses defaults when optional vars missing",
			envVars: map[string]string{},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "http://localhost:3000", c.APIBaseURL)
				assert.Equal(t, 10*time.Second, c.APITimeout)
				assert.Equal(t, 500*time.Millisecond, c.SearchDebounce)
				assert.Equal(t, "info", c.LogLevel)
				assert.Empty(t, c.APIToken)
			},
		},
		{
			name: "reads all vars",
			envVars: map[string]string{
				"API_BASE_URL":    "https://attendance.corp.test",
				"API_TOKEN":       "tok",
				"API_TIMEOUT":     "3s",
				"SEARCH_DEBOUNCE": "250ms",
				"LOG_LEVEL":       "debug",
				"JWT_SECRET":      "s3cret",
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://attendance.corp.test", c.APIBaseURL)
				assert.Equal(t, "tok", c.APIToken)
				assert.Equal(t, 3*time.Second, c.APITimeout)
				assert.Equal(t, 250*time.Millisecond, c.SearchDebounce)
				assert.Equal(t, "debug", c.LogLevel)
				assert.Equal(t, "s3cret", c.JWTSecret)
				assert.True(t, c.IsProduction())
			},
		},
		{
			name:    "fails on unparsable timeout",
			envVars: map[string]string{"API_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "fails on zero debounce",
			envVars: map[string]string{"SEARCH_DEBOUNCE": "0s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"API_BASE_URL", "API_TOKEN", "API_TIMEOUT", "SEARCH_DEBOUNCE", "LOG_LEVEL", "JWT_SECRET"} {
				unsetEnv(t, key)
			}
			// production skips the .env file
			t.Setenv("GO_ENV", "production")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// unsetEnv removes key for the duration of the test; an empty value would bypass defaults.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			os.Setenv(key, prev)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	(&Config{Environment: "production", LogLevel: "warn"}).NewLogger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	(&Config{Environment: "production", LogLevel: "warn"}).NewLogger(&buf).Warn("shown")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	(&Config{Environment: "development"}).NewLogger(&buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
