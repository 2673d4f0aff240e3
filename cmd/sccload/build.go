package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nrunyard/cma-ma-enrollment/internal/cache"
	"github.com/nrunyard/cma-ma-enrollment/internal/config"
	"github.com/nrunyard/cma-ma-enrollment/internal/exitcode"
	"github.com/nrunyard/cma-ma-enrollment/internal/fetch"
	"github.com/nrunyard/cma-ma-enrollment/internal/logging"
	"github.com/nrunyard/cma-ma-enrollment/internal/pipeline"
	"github.com/nrunyard/cma-ma-enrollment/internal/snapshot"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch the rolling window of monthly releases and write a snapshot",
	RunE:  runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&cfg.SnapshotPath, "snapshot", "", "Output Parquet snapshot path (required)")
	f.StringVar(&cfg.CacheDir, "cache-dir", ".scc-cache", "Directory for cached period downloads")
	f.DurationVar(&cfg.CacheTTL, "cache-ttl", 0, "Cache entry lifetime (0 = never expires)")
	f.IntVar(&cfg.RollingMonths, "months", config.DefaultRollingMonths, "Number of most recent periods to load")
	f.BoolVar(&cfg.RefreshCache, "refresh", false, "Re-fetch periods even when cached")
	f.StringVar(&cfg.IndexURL, "index-url", config.DefaultIndexURL, "Enrollment release index page")
	f.StringVar(&cfg.DirectoryURL, "directory-url", config.DefaultDirectoryURL, "Plan directory page")
	f.StringVar(&cfg.BaseURL, "base-url", config.DefaultBaseURL, "Base URL for relative links")
	f.DurationVar(&cfg.HTTPTimeout, "http-timeout", fetch.DefaultTimeout, "Per-request HTTP timeout")
	_ = buildCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	applyConfigFile(log)
	if err := cfg.ValidateForBuild(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	store, err := cache.NewFSStore(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		log.Error().Err(err).Msg("cache directory unusable")
		os.Exit(exitcode.UsageError)
	}

	src := fetch.NewClient(cfg.BaseURL, cfg.HTTPTimeout)
	result, err := pipeline.NewBuilder(src, store, &cfg, log).Run(ctx)
	if err != nil {
		var pe *pipeline.PhaseError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("build failed")
			switch pe.Phase {
			case "index":
				os.Exit(exitcode.FetchError)
			default:
				os.Exit(exitcode.BuildError)
			}
		}
		log.Error().Err(err).Msg("build failed")
		os.Exit(exitcode.BuildError)
	}

	if err := snapshot.Write(cfg.SnapshotPath, result.Dataset.Rows); err != nil {
		log.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("snapshot write failed")
		os.Exit(exitcode.BuildError)
	}

	s := result.Summary
	fmt.Printf("Build complete: %d/%d periods loaded (%d cached), %d rows, %.1f%% matched to directory (%.1fs)\n",
		s.PeriodsLoaded, s.PeriodsRequested, s.PeriodsCached,
		s.RowsCombined, s.MatchedPct, s.DurationTotal.Seconds())
	for _, f := range s.FailedPeriods {
		fmt.Printf("  skipped %s: %s\n", f.Period, f.Reason)
	}
	return nil
}
