package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tradejournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   remote database DSN
//	-s string   status server listen address ("" disables it)
//	-l string   log level
//	-data string  local data directory
//
// os.Args is filtered with flagx.FilterArgs first so the config file flag
// and REPL arguments do not trip the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-l", "-data"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "remote database DSN")
	fs.StringVar(&cfg.StatusAddr, "s", cfg.StatusAddr, "status server address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "local data directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
