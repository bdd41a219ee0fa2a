package config

import (
	"flag"
	"os"
	"time"

	"github.com/okulov/chatter/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   server base URL
//	-d string   local state directory
//	-r int      session refresh interval, minutes
//
// os.Args is first filtered to only the flags handled here, so the -c/-config
// flag consumed by the JSON layer does not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")
	fs.StringVar(&config.StateDir, "d", config.StateDir, "local state directory")

	refreshMinutes := fs.Int("r", int(config.RefreshInterval.Minutes()), "session refresh interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RefreshInterval = time.Duration(*refreshMinutes) * time.Minute
}
