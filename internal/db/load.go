package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	embedsql "github.com/nrunyard/cma-ma-enrollment/internal/sql"
)

const loadBatchSize = 1024

// LoadSnapshot bulk-loads dataset rows into enrollment.observations via
// COPY. Rows for each incoming period are deleted first inside the same
// transaction, so re-ingesting a snapshot is idempotent.
func LoadSnapshot(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, rows []model.Row) (int64, error) {
	start := time.Now()
	batchID := uuid.New()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin load tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, period := range distinctPeriods(rows) {
		tag, err := tx.Exec(ctx, embedsql.DeletePeriod, period)
		if err != nil {
			return 0, fmt.Errorf("delete period %s: %w", period, err)
		}
		if n := tag.RowsAffected(); n > 0 {
			log.Info().Str("period", period).Int64("rows_replaced", n).Msg("replacing period")
		}
	}

	ch := make(chan *model.StagingRow, loadBatchSize)
	go func() {
		defer close(ch)
		for i := range rows {
			ch <- model.ToStagingRow(rows[i], batchID, int64(i+1))
		}
	}()

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"enrollment", "observations"},
		model.StagingColumns(),
		NewChannelSource(ch),
	)
	if err != nil {
		return 0, fmt.Errorf("copy observations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit load tx: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_loaded", copied).
		Str("ingest_batch_id", batchID.String()).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(copied)/dur.Seconds()).
		Msg("snapshot load complete")

	return copied, nil
}

func distinctPeriods(rows []model.Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Period] {
			seen[r.Period] = true
			out = append(out, r.Period)
		}
	}
	return out
}
