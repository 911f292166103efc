// Package config loads runtime configuration for the AgriTrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-t int      request timeout (seconds)
//	-d string   path of the local session store
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "request_timeout": "15s",
//	  "session_db_path": "agritrack.db"
//	}
package config
