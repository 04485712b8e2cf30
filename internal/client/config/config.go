package config

import "time"

// Config holds runtime settings for the pitchview CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - DatabasePath: location of the local session database.
//   - RequestTimeout: overall deadline applied to interactive API calls.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config by applying defaults, then overlaying
// values from JSON (if a config file was given), the environment, and
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
