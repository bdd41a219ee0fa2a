package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win
// over it.
//
// Recognized variables:
//
//	CHATTER_SERVER_URL        server base URL (e.g. "http://localhost:5055")
//	CHATTER_STATE_DIR         local state directory
//	CHATTER_REFRESH_INTERVAL  revalidation interval (Go duration, e.g. "5m")
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("CHATTER_SERVER_URL"); v != "" {
		config.ServerURL = v
	}
	if v := os.Getenv("CHATTER_STATE_DIR"); v != "" {
		config.StateDir = v
	}
	if v := os.Getenv("CHATTER_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshInterval = d
		}
	}
}
