package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name:        "all flags",
			args:        []string{"cmd", "-a", "http://api.example:9090", "-d", "local.db", "-t", "5", "-i", "15"},
			expectPanic: false,
			expected: &Config{
				BaseURL:            "http://api.example:9090",
				DatabasePath:       "local.db",
				RequestTimeout:     5 * time.Second,
				UnreadPollInterval: 15 * time.Second,
			},
		},
		{
			name:        "incorrect poll interval",
			args:        []string{"cmd", "-i", "abc"},
			expectPanic: true,
			expected:    &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"base_url":             "http://www.example:9000/api",
		"database_path":        "from-json.db",
		"request_timeout":      "3s",
		"unread_poll_interval": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000/api", cfg.BaseURL)
		assert.Equal(t, "from-json.db", cfg.DatabasePath)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 10*time.Second, cfg.UnreadPollInterval)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{BaseURL: "defaults:1234", UnreadPollInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.UnreadPollInterval)
	})

	t.Run("partial JSON keeps defaults for omitted fields", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"base_url": "http://partial:1111",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://partial:1111", cfg.BaseURL)
		assert.Equal(t, "confessio.db", cfg.DatabasePath)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
