package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/okulov/chatter/internal/flagx"
	"github.com/okulov/chatter/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. Duration fields accept both "24h" strings and integer nanoseconds
// via timex.Duration; after unmarshalling the values are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddr         string         `json:"endpoint_addr"`
	AccountsFile         string         `json:"accounts_file"`
	SessionTTL           timex.Duration `json:"session_ttl"`
	SessionSweepInterval timex.Duration `json:"session_sweep_interval"`
	CORSAllowedOrigins   string         `json:"cors_allowed_origins"`
}

// parseJson overlays values from the JSON file named by the -c/-config flag,
// if any. A missing flag means no file is loaded; an unreadable or invalid
// file panics, since running with half-applied configuration is worse than
// not starting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.AccountsFile != "" {
		config.AccountsFile = c.AccountsFile
	}
	if c.SessionTTL.Std() != 0 {
		config.SessionTTL = c.SessionTTL.Std()
	}
	if c.SessionSweepInterval.Std() != 0 {
		config.SessionSweepInterval = c.SessionSweepInterval.Std()
	}
	if c.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = splitOrigins(c.CORSAllowedOrigins)
	}
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
