package config

import (
	"encoding/json"
	"os"

	"github.com/okulov/chatter/internal/flagx"
	"github.com/okulov/chatter/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. The duration field accepts both "5m" strings and integer
// nanoseconds via timex.Duration.
type JsonConfig struct {
	ServerURL       string         `json:"server_url"`
	StateDir        string         `json:"state_dir"`
	RefreshInterval timex.Duration `json:"refresh_interval"`
}

// parseJson overlays values from the JSON file named by the -c/-config flag,
// if any. An unreadable or invalid file panics rather than running with
// half-applied configuration.
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

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.StateDir != "" {
		config.StateDir = c.StateDir
	}
	if c.RefreshInterval.Std() != 0 {
		config.RefreshInterval = c.RefreshInterval.Std()
	}
}
