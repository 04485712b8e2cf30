package config

import (
	"os"
	"time"
)

// Environment variable names. A .env file loaded by the entrypoint ends up
// here as well.
const (
	EnvAPIBaseURL     = "PITCHVIEW_API_URL"
	EnvDatabasePath   = "PITCHVIEW_DB_PATH"
	EnvRequestTimeout = "PITCHVIEW_REQUEST_TIMEOUT"
)

// parseEnv overlays cfg with values from the environment. Unparseable
// durations are ignored rather than fatal; flags can still fix them.
func parseEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
