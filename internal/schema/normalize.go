package schema

import (
	"strings"

	"github.com/nrunyard/cma-ma-enrollment/internal/decode"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/normalize"
)

// Normalize converts a decoded RawTable into the PeriodRecord for one
// monthly release. Unclaimed source columns are dropped and the period
// identifier is attached to every row.
//
// Fails softly: when no enrollment-like column exists, the record is
// still produced with nil enrollment on every row; the returned Roles
// lets the caller decide whether such a period is usable.
func Normalize(t *decode.RawTable, period string) (*model.PeriodRecord, Roles) {
	roles := InferRoles(t.Columns)

	stateIdx, hasState := roles[RoleState]
	countyIdx, hasCounty := roles[RoleCounty]
	idIdx, hasID := roles[RoleContractID]
	nameIdx, hasName := roles[RoleContractName]
	enrollIdx, hasEnroll := roles[RoleEnrollment]

	rows := make([]model.Row, 0, len(t.Rows))
	for i := range t.Rows {
		row := model.Row{Period: period}
		if hasState {
			row.State = optCell(t, i, stateIdx)
		}
		if hasCounty {
			row.County = optCell(t, i, countyIdx)
		}
		if hasID {
			if id := normalize.ContractID(t.Cell(i, idIdx)); id != "" {
				row.ContractID = &id
			}
		}
		if hasName {
			row.ContractName = optCell(t, i, nameIdx)
		}
		if hasEnroll {
			row.Enrollment = normalize.Enrollment(t.Cell(i, enrollIdx))
		}
		rows = append(rows, row)
	}

	return &model.PeriodRecord{Period: period, Rows: rows}, roles
}

func optCell(t *decode.RawTable, row, col int) *string {
	s := strings.TrimSpace(t.Cell(row, col))
	if s == "" {
		return nil
	}
	return &s
}
