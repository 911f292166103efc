package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment.
// A .env file in the working directory is loaded first when present; missing
// files are fine, development convenience only.
//
// Recognized variables:
//
//	AGRITRACK_API_URL     base URL of the backend API
//	AGRITRACK_TIMEOUT     request timeout, time.ParseDuration syntax
//	AGRITRACK_SESSION_DB  path of the local session store
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("AGRITRACK_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("AGRITRACK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("AGRITRACK_SESSION_DB"); v != "" {
		cfg.SessionDBPath = v
	}
}
