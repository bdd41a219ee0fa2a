package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win
// over it, matching godotenv semantics.
//
// Recognized variables:
//
//	CHATTER_ADDRESS        bind address (e.g. ":5055")
//	CHATTER_ACCOUNTS_FILE  accounts file path
//	CHATTER_SESSION_TTL    session lifetime (Go duration, e.g. "24h")
//	CHATTER_CORS_ORIGINS   comma-separated allowed origins
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("CHATTER_ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("CHATTER_ACCOUNTS_FILE"); v != "" {
		config.AccountsFile = v
	}
	if v := os.Getenv("CHATTER_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v := os.Getenv("CHATTER_CORS_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitOrigins(v)
	}
}
