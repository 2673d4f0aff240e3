package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nrunyard/cma-ma-enrollment/internal/archive"
	"github.com/nrunyard/cma-ma-enrollment/internal/cache"
	"github.com/nrunyard/cma-ma-enrollment/internal/decode"
	"github.com/nrunyard/cma-ma-enrollment/internal/directory"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/schema"
)

// loadPeriod resolves one monthly release to a PeriodRecord, consulting
// the cache first. The cached form is the canonical CSV of the decoded
// table, so a hit skips fetch, extraction, and trial decoding.
func (b *Builder) loadPeriod(ctx context.Context, period, pageURL string) (*model.PeriodRecord, bool, error) {
	key := "ma_scc_" + period

	compute := func() ([]byte, error) {
		t, err := b.fetchTable(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		return t.MarshalCSV()
	}

	var (
		data []byte
		hit  bool
		err  error
	)
	if b.cfg.RefreshCache {
		if data, err = compute(); err == nil {
			err = b.store.Put(key, data)
		}
	} else {
		data, hit, err = cache.GetOrFetch(b.store, key, compute)
	}
	if err != nil {
		return nil, false, err
	}

	t, err := decode.UnmarshalCSV(data)
	if err != nil {
		return nil, false, err
	}

	rec, roles := schema.Normalize(t, period)
	if _, ok := roles[schema.RoleEnrollment]; !ok {
		// Soft failure: geography/contract dimensions may still be
		// usable, so the period is kept with nil enrollment.
		b.log.Warn().
			Str("period", period).
			Strs("columns", t.Columns).
			Msg("no enrollment-like column found")
	}
	return rec, hit, nil
}

// fetchTable downloads a release and decodes it into a table. Non-zip
// payloads (a bare csv/txt link on the detail page) bypass extraction.
func (b *Builder) fetchTable(ctx context.Context, pageURL string) (*decode.RawTable, error) {
	url, err := b.src.DownloadURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	payload, err := b.src.Download(ctx, url)
	if err != nil {
		return nil, err
	}

	raw := payload
	if archive.IsZip(payload) || strings.HasSuffix(strings.ToLower(url), ".zip") {
		if raw, err = archive.ExtractDataFile(payload); err != nil {
			return nil, err
		}
	}

	t, err := decode.Decode(raw)
	if err != nil {
		return nil, err
	}
	b.log.Debug().
		Str("encoding", t.Encoding).
		Str("delimiter", fmt.Sprintf("%q", t.Delimiter)).
		Int("columns", len(t.Columns)).
		Msg("table decoded")
	return t, nil
}

// loadDirectory fetches and parses the plan directory. Every failure
// degrades to a nil directory rather than aborting the build.
func (b *Builder) loadDirectory(ctx context.Context) ([]model.OrganizationEntry, *directory.Diagnostics) {
	t, err := b.fetchTable(ctx, b.cfg.DirectoryURL)
	if err != nil {
		b.log.Warn().Err(err).Msg("plan directory unavailable, join degraded")
		return nil, nil
	}

	entries, diag, err := directory.Parse(t, b.cons)
	if err != nil {
		b.log.Warn().Err(err).Strs("columns", t.Columns).Msg("plan directory unusable, join degraded")
		return nil, diag
	}
	b.log.Info().
		Int("contracts", len(entries)).
		Str("contract_column", diag.ContractColumn).
		Str("parent_column", diag.ParentColumn).
		Msg("plan directory loaded")
	return entries, diag
}
