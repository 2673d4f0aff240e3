package dataset

import (
	"sort"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
)

// FilterState holds the user-chosen inclusion sets. An empty set means
// no restriction on that dimension.
//
// Scoping rule: option lists for downstream filters are computed against
// the dataset restricted by upstream filters (organization narrows
// state options; organization+state+type narrows contract options), but
// Match intersects all non-empty selections independently — scoping
// affects what is offered, never which rows a made selection includes.
type FilterState struct {
	Organizations []string
	States        []string
	ContractTypes []string
	Contracts     []string
}

// Match reports whether a row passes every non-empty selection.
func (f FilterState) Match(r model.Row) bool {
	if len(f.Organizations) > 0 && !containsPtr(f.Organizations, r.ParentOrganization) {
		return false
	}
	if len(f.States) > 0 && !containsPtr(f.States, r.State) {
		return false
	}
	if len(f.ContractTypes) > 0 && !containsPtr(f.ContractTypes, r.ContractType) {
		return false
	}
	if len(f.Contracts) > 0 && !containsPtr(f.Contracts, contractKey(r)) {
		return false
	}
	return true
}

// contractKey is the value the contract/plan filter operates on: the
// contract name when present, else the identifier.
func contractKey(r model.Row) *string {
	if r.ContractName != nil {
		return r.ContractName
	}
	return r.ContractID
}

func containsPtr(set []string, v *string) bool {
	if v == nil {
		return false
	}
	for _, s := range set {
		if s == *v {
			return true
		}
	}
	return false
}

// OrganizationOptions returns all distinct parent organizations.
func (d *WorkingDataset) OrganizationOptions() []string {
	return d.options(FilterState{}, func(r model.Row) *string { return r.ParentOrganization })
}

// StateOptions returns states available under the organization
// selection.
func (d *WorkingDataset) StateOptions(f FilterState) []string {
	scope := FilterState{Organizations: f.Organizations}
	return d.options(scope, func(r model.Row) *string { return r.State })
}

// ContractTypeOptions returns contract types available under the
// organization selection.
func (d *WorkingDataset) ContractTypeOptions(f FilterState) []string {
	scope := FilterState{Organizations: f.Organizations}
	return d.options(scope, func(r model.Row) *string { return r.ContractType })
}

// ContractOptions returns contracts/plans available under the
// organization, state, and contract-type selections.
func (d *WorkingDataset) ContractOptions(f FilterState) []string {
	scope := FilterState{
		Organizations: f.Organizations,
		States:        f.States,
		ContractTypes: f.ContractTypes,
	}
	return d.options(scope, contractKey)
}

func (d *WorkingDataset) options(scope FilterState, get func(model.Row) *string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Rows {
		if !scope.Match(r) {
			continue
		}
		if v := get(r); v != nil && !seen[*v] {
			seen[*v] = true
			out = append(out, *v)
		}
	}
	sort.Strings(out)
	return out
}
