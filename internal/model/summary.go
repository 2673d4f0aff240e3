package model

import "time"

// PeriodFailure records one skipped period and why.
type PeriodFailure struct {
	Period string
	Reason string
}

// BuildSummary captures metrics from a single build run.
type BuildSummary struct {
	PeriodsRequested int
	PeriodsLoaded    int
	PeriodsCached    int
	RowsCombined     int64
	FailedPeriods    []PeriodFailure
	DirectoryLoaded  bool
	DirectoryRows    int
	MatchedRows      int64
	MatchedPct       float64
	DurationFetch    time.Duration
	DurationJoin     time.Duration
	DurationTotal    time.Duration
}
