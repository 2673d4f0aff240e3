package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/nrunyard/cma-ma-enrollment/internal/dataset"
	"github.com/nrunyard/cma-ma-enrollment/internal/exitcode"
	"github.com/nrunyard/cma-ma-enrollment/internal/logging"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
	"github.com/nrunyard/cma-ma-enrollment/internal/server"
	"github.com/nrunyard/cma-ma-enrollment/internal/snapshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a snapshot over the dashboard JSON API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.SnapshotPath, "snapshot", "", "Path to Parquet snapshot (required)")
	f.StringVar(&cfg.Addr, "addr", ":8080", "Listen address")
	_ = serveCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	applyConfigFile(log)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	rows, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.SnapshotPath).Msg("snapshot read failed")
		os.Exit(exitcode.ValidationError)
	}

	// Snapshots may predate consolidation table changes; re-apply so the
	// served organization names reflect the current table.
	ds := &dataset.WorkingDataset{Rows: rows}
	ds.Reconsolidate(orgs.NewConsolidator(cfg.ConsolidationTable()))

	log.Info().
		Int("rows", len(ds.Rows)).
		Int("periods", len(ds.Periods())).
		Str("addr", cfg.Addr).
		Msg("serving snapshot")

	if err := http.ListenAndServe(cfg.Addr, server.New(ds, log).Router()); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(exitcode.ServeError)
	}
	return nil
}
