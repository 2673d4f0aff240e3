// Package pipeline orchestrates a build: scrape the period index, fetch
// and normalize each monthly release, join the directory, and hand back
// the combined working dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrunyard/cma-ma-enrollment/internal/cache"
	"github.com/nrunyard/cma-ma-enrollment/internal/config"
	"github.com/nrunyard/cma-ma-enrollment/internal/dataset"
	"github.com/nrunyard/cma-ma-enrollment/internal/directory"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
)

// ErrEmptyResultSet means zero usable periods survived the skips; there
// is nothing meaningful to persist or display.
var ErrEmptyResultSet = errors.New("no usable periods after all skips")

// PhaseError wraps an error with the pipeline phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Source is the page/file fetch boundary (the crawler collaborator).
type Source interface {
	PeriodIndex(ctx context.Context, indexURL string) (map[string]string, error)
	DownloadURL(ctx context.Context, pageURL string) (string, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Result is everything a build produces.
type Result struct {
	Dataset       *dataset.WorkingDataset
	JoinDiag      *dataset.JoinDiagnostics
	DirectoryDiag *directory.Diagnostics
	Summary       model.BuildSummary
}

// Builder runs the build pipeline. Single-threaded and demand-driven:
// fetches are sequential, one period's failure never aborts the rest.
type Builder struct {
	src   Source
	store cache.Store
	cons  *orgs.Consolidator
	types model.ContractTypeTable
	cfg   *config.Config
	log   zerolog.Logger
}

// NewBuilder wires the pipeline's collaborators.
func NewBuilder(src Source, store cache.Store, cfg *config.Config, log zerolog.Logger) *Builder {
	return &Builder{
		src:   src,
		store: store,
		cons:  orgs.NewConsolidator(cfg.ConsolidationTable()),
		types: cfg.ContractTypeTable(),
		cfg:   cfg,
		log:   log,
	}
}

// Run executes the full build: index → per-period fetch/normalize →
// directory load → join.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	totalStart := time.Now()

	links, err := b.src.PeriodIndex(ctx, b.cfg.IndexURL)
	if err != nil {
		return nil, &PhaseError{Phase: "index", Err: err}
	}
	b.log.Info().Int("periods_listed", len(links)).Msg("period index fetched")

	periods := rollingPeriods(links, b.cfg.RollingMonths)

	summary := model.BuildSummary{PeriodsRequested: len(periods)}
	var records []*model.PeriodRecord

	fetchStart := time.Now()
	for _, period := range periods {
		rec, cached, err := b.loadPeriod(ctx, period, links[period])
		if err != nil {
			b.log.Warn().Err(err).Str("period", period).Msg("skipping period")
			summary.FailedPeriods = append(summary.FailedPeriods, model.PeriodFailure{
				Period: period,
				Reason: err.Error(),
			})
			continue
		}
		if cached {
			summary.PeriodsCached++
		}
		records = append(records, rec)
		b.log.Info().
			Str("period", period).
			Int("rows", len(rec.Rows)).
			Bool("cached", cached).
			Msg("period loaded")
	}
	summary.DurationFetch = time.Since(fetchStart)
	summary.PeriodsLoaded = len(records)

	if len(records) == 0 {
		return nil, &PhaseError{Phase: "combine", Err: ErrEmptyResultSet}
	}

	// Directory failure is never fatal: the join degrades to
	// all-unmatched and contract type falls back to the code table.
	entries, dirDiag := b.loadDirectory(ctx)
	summary.DirectoryLoaded = entries != nil
	summary.DirectoryRows = len(entries)

	joinStart := time.Now()
	ds, joinDiag := dataset.Join(records, entries, b.types)
	summary.DurationJoin = time.Since(joinStart)

	summary.RowsCombined = int64(len(ds.Rows))
	summary.MatchedRows = int64(joinDiag.Matched)
	summary.MatchedPct = joinDiag.MatchedPct
	summary.DurationTotal = time.Since(totalStart)

	b.log.Info().
		Int("periods_loaded", summary.PeriodsLoaded).
		Int("periods_failed", len(summary.FailedPeriods)).
		Int64("rows", summary.RowsCombined).
		Float64("matched_pct", summary.MatchedPct).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("build complete")

	return &Result{
		Dataset:       ds,
		JoinDiag:      joinDiag,
		DirectoryDiag: dirDiag,
		Summary:       summary,
	}, nil
}

// rollingPeriods picks the n most recent listed periods, returned
// oldest first for processing.
func rollingPeriods(links map[string]string, n int) []string {
	all := make([]string, 0, len(links))
	for p := range links {
		all = append(all, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(all)))
	if len(all) > n {
		all = all[:n]
	}
	sort.Strings(all)
	return all
}
