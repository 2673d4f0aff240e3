package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nrunyard/cma-ma-enrollment/internal/config"
	"github.com/nrunyard/cma-ma-enrollment/internal/exitcode"
)

var cfg config.Config
var configFile string

var rootCmd = &cobra.Command{
	Use:   "sccload",
	Short: "Medicare Advantage SCC enrollment pipeline",
	Long:  "Fetches monthly MA state/county/contract enrollment releases, reconciles their drifting file shapes into one working dataset, and loads it into Parquet snapshots or Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configFile, "config", "", "Path to YAML config file")
}

// applyConfigFile merges the --config YAML file into cfg, after flag
// defaults and before validation.
func applyConfigFile(log zerolog.Logger) {
	if configFile == "" {
		return
	}
	if err := cfg.LoadFromFile(configFile); err != nil {
		log.Error().Err(err).Str("path", configFile).Msg("config file load failed")
		os.Exit(exitcode.UsageError)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
