// Package compare computes month-over-month, year-over-year, and
// custom-baseline enrollment deltas over the working dataset.
package compare

import (
	"fmt"
	"sort"

	"github.com/nrunyard/cma-ma-enrollment/internal/dataset"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/normalize"
)

// Baseline derivation modes.
const (
	BaselinePriorMonth    = "prior-month"
	BaselinePriorYear     = "prior-year"
	BaselinePriorDecember = "prior-december"
)

// Dimension selects the grouping column for a dimensional comparison.
type Dimension string

const (
	DimOrganization Dimension = "PARENT_ORGANIZATION"
	DimState        Dimension = "STATE"
	DimContractName Dimension = "CONTRACT_NAME"
	DimContractID   Dimension = "CONTRACT_ID"
)

// Delta is an aggregate current-vs-baseline result. Pct is nil when the
// baseline value is exactly zero: percentage change is undefined then,
// never infinity or NaN.
type Delta struct {
	CurrentPeriod  string   `json:"current_period"`
	BaselinePeriod string   `json:"baseline_period"`
	Current        float64  `json:"current"`
	Baseline       float64  `json:"baseline"`
	Change         float64  `json:"change"`
	Pct            *float64 `json:"pct,omitempty"`
}

// GroupDelta is one row of a dimensional comparison.
type GroupDelta struct {
	Group    string   `json:"group"`
	Current  float64  `json:"current"`
	Baseline float64  `json:"baseline"`
	Change   float64  `json:"change"`
	Pct      *float64 `json:"pct,omitempty"`
}

// Comparison is a dimensional comparison result. Groups present in only
// one period produce no row (inner join); their counts are reported so
// the omission is visible.
type Comparison struct {
	CurrentPeriod  string       `json:"current_period"`
	BaselinePeriod string       `json:"baseline_period"`
	Groups         []GroupDelta `json:"groups"`
	OnlyCurrent    int          `json:"only_current"`
	OnlyBaseline   int          `json:"only_baseline"`
}

// Engine computes comparisons against the full dataset. Baseline
// aggregates are always resolved against every loaded period, not the
// display subset, so a baseline outside the selected display window
// still works; all non-period filters apply to both sides.
type Engine struct {
	full *dataset.WorkingDataset
}

// NewEngine wraps the full (unfiltered-by-period) working dataset.
func NewEngine(full *dataset.WorkingDataset) *Engine {
	return &Engine{full: full}
}

// ResolveBaseline derives the baseline period for a mode and reports
// whether that period is present in the dataset.
func (e *Engine) ResolveBaseline(current, mode string) (string, bool) {
	var p string
	switch mode {
	case BaselinePriorMonth:
		p = normalize.PriorMonth(current)
	case BaselinePriorYear:
		p = normalize.SameMonthPriorYear(current)
	case BaselinePriorDecember:
		p = normalize.PriorDecember(current)
	default:
		return "", false
	}
	if p == "" {
		return "", false
	}
	for _, loaded := range e.full.Periods() {
		if loaded == p {
			return p, true
		}
	}
	return p, false
}

// Aggregate computes the total-enrollment delta between two periods
// under the given filters.
func (e *Engine) Aggregate(current, baseline string, f dataset.FilterState) Delta {
	cur := e.sumPeriod(current, f)
	base := e.sumPeriod(baseline, f)
	d := Delta{
		CurrentPeriod:  current,
		BaselinePeriod: baseline,
		Current:        cur,
		Baseline:       base,
		Change:         cur - base,
	}
	d.Pct = pctChange(d.Change, base)
	return d
}

// ByDimension computes per-group deltas between two periods. Groups are
// matched by an inner join on the dimension value; rows whose dimension
// is nil are excluded. Results sort by Change descending.
func (e *Engine) ByDimension(dim Dimension, current, baseline string, f dataset.FilterState) (*Comparison, error) {
	get, err := extractor(dim)
	if err != nil {
		return nil, err
	}

	curSums := e.groupPeriod(current, f, get)
	baseSums := e.groupPeriod(baseline, f, get)

	c := &Comparison{CurrentPeriod: current, BaselinePeriod: baseline}
	for group, cur := range curSums {
		base, ok := baseSums[group]
		if !ok {
			c.OnlyCurrent++
			continue
		}
		g := GroupDelta{Group: group, Current: cur, Baseline: base, Change: cur - base}
		g.Pct = pctChange(g.Change, base)
		c.Groups = append(c.Groups, g)
	}
	for group := range baseSums {
		if _, ok := curSums[group]; !ok {
			c.OnlyBaseline++
		}
	}

	sort.Slice(c.Groups, func(i, j int) bool {
		if c.Groups[i].Change != c.Groups[j].Change {
			return c.Groups[i].Change > c.Groups[j].Change
		}
		return c.Groups[i].Group < c.Groups[j].Group
	})
	return c, nil
}

func (e *Engine) sumPeriod(period string, f dataset.FilterState) float64 {
	var total float64
	for _, r := range e.full.Rows {
		if r.Period != period || !f.Match(r) {
			continue
		}
		if r.Enrollment != nil {
			total += *r.Enrollment
		}
	}
	return total
}

func (e *Engine) groupPeriod(period string, f dataset.FilterState, get func(model.Row) *string) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range e.full.Rows {
		if r.Period != period || !f.Match(r) {
			continue
		}
		g := get(r)
		if g == nil {
			continue
		}
		v := 0.0
		if r.Enrollment != nil {
			v = *r.Enrollment
		}
		sums[*g] += v
	}
	return sums
}

func extractor(dim Dimension) (func(model.Row) *string, error) {
	switch dim {
	case DimOrganization:
		return func(r model.Row) *string { return r.ParentOrganization }, nil
	case DimState:
		return func(r model.Row) *string { return r.State }, nil
	case DimContractName:
		return func(r model.Row) *string { return r.ContractName }, nil
	case DimContractID:
		return func(r model.Row) *string { return r.ContractID }, nil
	}
	return nil, fmt.Errorf("unknown comparison dimension %q", dim)
}

func pctChange(change, baseline float64) *float64 {
	if baseline == 0 {
		return nil
	}
	pct := change / baseline * 100
	return &pct
}
