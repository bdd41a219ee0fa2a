// Package config handles configuration for the client component, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Chatter client.
//
// Fields:
//   - ServerURL: base URL of the Chatter server.
//   - StateDir: directory holding the local state files and session cookie.
//   - RefreshInterval: how often the session is revalidated with the server.
type Config struct {
	ServerURL       string
	StateDir        string
	RefreshInterval time.Duration
}

// LoadDefaults populates Config with development defaults, pointing at a
// locally running server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5055"
	c.StateDir = ".chatter"
	c.RefreshInterval = 5 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
