package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nrunyard/cma-ma-enrollment/internal/exitcode"
	"github.com/nrunyard/cma-ma-enrollment/internal/logging"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/snapshot"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Snapshot stats and validation (no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.SnapshotPath, "snapshot", "", "Path to Parquet snapshot (required)")
	_ = planCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(planCmd)
}

type periodStats struct {
	rows      int64
	total     float64
	unmatched int64
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	stat, err := os.Stat(cfg.SnapshotPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat snapshot")
		os.Exit(exitcode.ValidationError)
	}

	reader, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open snapshot")
		os.Exit(exitcode.ValidationError)
	}
	defer reader.Close()

	byPeriod := make(map[string]*periodStats)
	buf := make([]model.SnapshotRow, 256)
	var scanned int64

	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			scanned++
			row := model.FromSnapshotRow(buf[i])
			ps, ok := byPeriod[row.Period]
			if !ok {
				ps = &periodStats{}
				byPeriod[row.Period] = ps
			}
			ps.rows++
			if row.Enrollment != nil {
				ps.total += *row.Enrollment
			}
			if row.ParentOrganization == nil {
				ps.unmatched++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			log.Error().Err(readErr).Msg("failed to read snapshot rows")
			os.Exit(exitcode.ValidationError)
		}
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	fmt.Println("=== sccload plan ===")
	fmt.Printf("Snapshot:   %s\n", cfg.SnapshotPath)
	fmt.Printf("Size:       %d bytes\n", stat.Size())
	fmt.Printf("Total rows: %d\n", scanned)
	fmt.Printf("Periods:    %d\n", len(periods))
	fmt.Println()
	fmt.Println("Per-period totals:")
	for _, p := range periods {
		ps := byPeriod[p]
		matchedPct := 100.0
		if ps.rows > 0 {
			matchedPct = float64(ps.rows-ps.unmatched) / float64(ps.rows) * 100
		}
		fmt.Printf("  %s  %8d rows  %12.0f enrolled  %5.1f%% matched\n",
			p, ps.rows, ps.total, matchedPct)
	}
	return nil
}
