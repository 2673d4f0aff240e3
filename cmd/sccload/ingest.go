package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nrunyard/cma-ma-enrollment/internal/db"
	"github.com/nrunyard/cma-ma-enrollment/internal/exitcode"
	"github.com/nrunyard/cma-ma-enrollment/internal/logging"
	"github.com/nrunyard/cma-ma-enrollment/internal/snapshot"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Bulk-load a snapshot into Postgres",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&cfg.SnapshotPath, "snapshot", "", "Path to Parquet snapshot (required)")
	_ = ingestCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	applyConfigFile(log)
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rows, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("snapshot read failed")
		os.Exit(exitcode.ValidationError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	inserted, err := db.LoadSnapshot(ctx, pool, log, rows)
	if err != nil {
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(exitcode.CopyError)
	}

	fmt.Printf("Ingest complete: %d rows loaded\n", inserted)
	return nil
}
