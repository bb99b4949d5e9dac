package config

import "time"

// Config holds runtime settings for the Confessio CLI.
//
// Fields:
//   - BaseURL: root of the backend HTTP API, e.g. "http://localhost:8080/api".
//   - DatabasePath: path of the local SQLite file holding tokens and
//     display preferences.
//   - RequestTimeout: per-request timeout for API calls.
//   - UnreadPollInterval: how often the background watcher refreshes the
//     unread counter.
type Config struct {
	BaseURL            string
	DatabasePath       string
	RequestTimeout     time.Duration
	UnreadPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080/api"
	c.DatabasePath = "confessio.db"
	c.RequestTimeout = 10 * time.Second
	c.UnreadPollInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
