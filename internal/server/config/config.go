// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import (
	"time"

	"github.com/okulov/chatter/internal/server/sessions"
)

// Config holds runtime settings for the Chatter server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - AccountsFile: path of the JSON file holding all account records.
//   - SessionTTL: absolute session lifetime; also the cookie max-age.
//   - SessionSweepInterval: how often expired sessions are swept.
//   - CORSAllowedOrigins: origins the browser frontend may call from.
type Config struct {
	EndpointAddr         string
	AccountsFile         string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	CORSAllowedOrigins   []string
}

// LoadDefaults populates Config with development defaults. The port matches
// what the frontend expects out of the box.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5055"
	c.AccountsFile = "data/users.json"
	c.SessionTTL = sessions.TTL
	c.SessionSweepInterval = 10 * time.Minute
	c.CORSAllowedOrigins = []string{"http://localhost:3000"}
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
