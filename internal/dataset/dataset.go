// Package dataset builds and filters the combined working dataset: all
// loaded period records left-joined with the organization directory.
package dataset

import (
	"sort"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
)

// WorkingDataset is the concatenation of all loaded periods after the
// directory join. Immutable once built; filters produce views.
type WorkingDataset struct {
	Rows []model.Row
}

const directoryTypeThreshold = 0.5

// Join concatenates period records and left-joins them against the
// directory on the normalized contract identifier. Row count is
// preserved exactly: unmatched rows keep a nil parent organization.
//
// Contract type uses the directory-asserted plan type when the
// directory covers more than half of all rows, otherwise the
// prefix-code table (with Other for unknown codes).
func Join(records []*model.PeriodRecord, entries []model.OrganizationEntry, types model.ContractTypeTable) (*WorkingDataset, *JoinDiagnostics) {
	lookup := make(map[string]model.OrganizationEntry, len(entries))
	for _, e := range entries {
		if _, dup := lookup[e.ContractID]; !dup {
			lookup[e.ContractID] = e
		}
	}

	var rows []model.Row
	for _, rec := range records {
		rows = append(rows, rec.Rows...)
	}

	diag := newJoinDiagnostics(len(rows), entries)

	dirTypes := make([]*string, len(rows))
	hasContract := false
	for i := range rows {
		if rows[i].ContractID == nil {
			continue
		}
		hasContract = true
		diag.observeEnrollmentID(*rows[i].ContractID)
		e, ok := lookup[*rows[i].ContractID]
		if !ok {
			diag.observeUnmatched(*rows[i].ContractID)
			continue
		}
		diag.Matched++
		parent := e.ParentOrganization
		rows[i].ParentOrganization = &parent
		dirTypes[i] = e.PlanType
	}
	diag.finish()

	if hasContract {
		deriveContractTypes(rows, dirTypes, types)
	}

	return &WorkingDataset{Rows: rows}, diag
}

func deriveContractTypes(rows []model.Row, dirTypes []*string, types model.ContractTypeTable) {
	covered := 0
	for _, t := range dirTypes {
		if t != nil {
			covered++
		}
	}
	if float64(covered) > directoryTypeThreshold*float64(len(rows)) {
		for i := range rows {
			rows[i].ContractType = dirTypes[i]
		}
		return
	}
	for i := range rows {
		label := model.ContractTypeOther
		if rows[i].ContractID != nil {
			label = types.Label(*rows[i].ContractID)
		}
		rows[i].ContractType = &label
	}
}

// Reconsolidate re-applies the organization consolidation map in place,
// so snapshots built before a map update still collapse correctly.
func (d *WorkingDataset) Reconsolidate(c *orgs.Consolidator) {
	for i := range d.Rows {
		if d.Rows[i].ParentOrganization != nil {
			name := c.Consolidate(*d.Rows[i].ParentOrganization)
			d.Rows[i].ParentOrganization = &name
		}
	}
}

// Periods returns the sorted distinct periods present in the dataset.
func (d *WorkingDataset) Periods() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Rows {
		if !seen[r.Period] {
			seen[r.Period] = true
			out = append(out, r.Period)
		}
	}
	sort.Strings(out)
	return out
}

// Filter returns the rows matching the filter state. Non-destructive.
func (d *WorkingDataset) Filter(f FilterState) []model.Row {
	var out []model.Row
	for _, r := range d.Rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
