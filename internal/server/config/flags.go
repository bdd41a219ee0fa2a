package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okulov/chatter/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5055")
//	-f string   accounts file path
//	-t int      session TTL, hours
//	-o string   comma-separated CORS allowed origins
//
// os.Args is first filtered to only the flags handled here, so the -c/-config
// flag consumed by the JSON layer does not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.AccountsFile, "f", config.AccountsFile, "accounts file path")

	sessionTTLHours := fs.Int("t", int(config.SessionTTL.Hours()), "session ttl (in hours)")
	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins (comma-separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTLHours) * time.Hour
	config.CORSAllowedOrigins = splitOrigins(*origins)
}
