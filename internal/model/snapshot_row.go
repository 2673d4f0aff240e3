package model

// SnapshotRow mirrors the Parquet schema of the combined dataset: one
// row per (period, geography, contract) observation.
type SnapshotRow struct {
	ReportPeriod       string   `parquet:"report_period"`
	Enrollment         *float64 `parquet:"enrollment,optional"`
	State              *string  `parquet:"state,optional"`
	County             *string  `parquet:"county,optional"`
	ContractID         *string  `parquet:"contract_id,optional"`
	ContractName       *string  `parquet:"contract_name,optional"`
	ParentOrganization *string  `parquet:"parent_organization,optional"`
	ContractType       *string  `parquet:"contract_type,optional"`
}

// ToSnapshotRow converts a joined Row into its Parquet representation.
func ToSnapshotRow(r Row) SnapshotRow {
	return SnapshotRow{
		ReportPeriod:       r.Period,
		Enrollment:         r.Enrollment,
		State:              r.State,
		County:             r.County,
		ContractID:         r.ContractID,
		ContractName:       r.ContractName,
		ParentOrganization: r.ParentOrganization,
		ContractType:       r.ContractType,
	}
}

// FromSnapshotRow converts a Parquet-read row back to the in-memory form.
func FromSnapshotRow(s SnapshotRow) Row {
	return Row{
		Period:             s.ReportPeriod,
		Enrollment:         s.Enrollment,
		State:              s.State,
		County:             s.County,
		ContractID:         s.ContractID,
		ContractName:       s.ContractName,
		ParentOrganization: s.ParentOrganization,
		ContractType:       s.ContractType,
	}
}
