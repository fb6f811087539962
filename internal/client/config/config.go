// Package config loads runtime settings for the TypeMatch CLI from, in
// order of increasing precedence: built-in defaults, a .env file plus the
// process environment, an optional JSON file, and command-line flags.
package config

import "time"

// Config holds runtime settings for the TypeMatch CLI.
//
// Fields:
//   - BaseURL: root URL of the backend REST API.
//   - DatabasePath: SQLite file holding the persisted session credentials.
//   - RequestTimeout: per-request timeout on the HTTP transport.
//   - PollInterval: how often the background notification refresh runs.
type Config struct {
	BaseURL        string
	DatabasePath   string
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3001"
	c.DatabasePath = "typematch.db"
	c.RequestTimeout = 15 * time.Second
	c.PollInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present), and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
