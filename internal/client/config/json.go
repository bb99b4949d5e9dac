package config

import (
	"encoding/json"
	"os"

	"github.com/confessio/confessio/internal/flagx"
	"github.com/confessio/confessio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	BaseURL            string         `json:"base_url"`
	DatabasePath       string         `json:"database_path"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	UnreadPollInterval timex.Duration `json:"unread_poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file resolved via
// the -c/-config flags. Missing file path means no JSON is loaded. Read or
// unmarshal errors panic; intended usage is defaults -> parseJson ->
// parseFlags, later stages overriding earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UnreadPollInterval.Duration != 0 {
		cfg.UnreadPollInterval = jc.UnreadPollInterval.Duration
	}
}
