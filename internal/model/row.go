package model

// Row is one normalized enrollment observation: a (period, geography,
// contract) cell. Optional fields are nil when the source period lacked
// the column or the cell was blank.
type Row struct {
	Period       string
	State        *string
	County       *string
	ContractID   *string
	ContractName *string

	// Enrollment is nil when the source did not report a value.
	// A suppressed count (withheld small count) is imputed to 5 during
	// normalization, so nil and 5 stay distinguishable.
	Enrollment *float64

	// Populated by the directory join; nil when the contract is unmatched.
	ParentOrganization *string
	ContractType       *string
}

// PeriodRecord is the normalized output of one monthly release.
// Immutable once created; every row carries the same Period.
type PeriodRecord struct {
	Period string
	Rows   []Row
}

// OrganizationEntry is one deduplicated row of the MA plan directory.
type OrganizationEntry struct {
	ContractID         string
	ParentOrganization string
	PlanType           *string
}
