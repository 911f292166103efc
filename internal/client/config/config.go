package config

import "time"

// Config holds runtime settings for the AgriTrack CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the /api prefix.
//   - RequestTimeout: per-request timeout for backend calls.
//   - SessionDBPath: path of the local SQLite session store.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionDBPath  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "agritrack.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (optionally seeded from a .env file), a JSON file (if
// present), and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
