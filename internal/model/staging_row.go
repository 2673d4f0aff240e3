package model

import "github.com/google/uuid"

// StagingRow is the DB-ready representation of one enrollment observation
// for COPY into enrollment.observations.
type StagingRow struct {
	IngestBatchID   uuid.UUID
	SourceRowNumber int64

	ReportPeriod       string
	State              *string
	County             *string
	ContractID         *string
	ContractName       *string
	Enrollment         *float64
	ParentOrganization *string
	ContractType       *string
}

// StagingColumns returns the ordered column names for COPY into
// enrollment.observations.
func StagingColumns() []string {
	return []string{
		"ingest_batch_id",
		"source_row_number",
		"report_period",
		"state",
		"county",
		"contract_id",
		"contract_name",
		"enrollment",
		"parent_organization",
		"contract_type",
	}
}

// CopyValues returns the row values in StagingColumns() order, suitable
// for pgx CopyFromSource.
func (r *StagingRow) CopyValues() []any {
	return []any{
		r.IngestBatchID,
		r.SourceRowNumber,
		r.ReportPeriod,
		r.State,
		r.County,
		r.ContractID,
		r.ContractName,
		r.Enrollment,
		r.ParentOrganization,
		r.ContractType,
	}
}

// ToStagingRow converts a joined Row for bulk load.
func ToStagingRow(r Row, batchID uuid.UUID, rowNum int64) *StagingRow {
	return &StagingRow{
		IngestBatchID:      batchID,
		SourceRowNumber:    rowNum,
		ReportPeriod:       r.Period,
		State:              r.State,
		County:             r.County,
		ContractID:         r.ContractID,
		ContractName:       r.ContractName,
		Enrollment:         r.Enrollment,
		ParentOrganization: r.ParentOrganization,
		ContractType:       r.ContractType,
	}
}
