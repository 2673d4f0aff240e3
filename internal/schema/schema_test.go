package schema

import (
	"testing"

	"github.com/nrunyard/cma-ma-enrollment/internal/decode"
)

func TestInferRoles_CommonVintage(t *testing.T) {
	roles := InferRoles([]string{"STATE", "COUNTY", "CONTRACT_NUMBER", "CONTRACT_NAME", "ENROLLED"})
	want := Roles{
		RoleState:        0,
		RoleCounty:       1,
		RoleContractID:   2,
		RoleContractName: 3,
		RoleEnrollment:   4,
	}
	for role, idx := range want {
		if got, ok := roles[role]; !ok || got != idx {
			t.Errorf("role %s = %d (claimed %v), want %d", role, got, ok, idx)
		}
	}
}

func TestInferRoles_FIPSNotState(t *testing.T) {
	roles := InferRoles([]string{"FIPS_STATE_CODE", "STATE_NAME", "FIPS_COUNTY_CODE", "COUNTY_NAME"})
	if roles[RoleState] != 1 {
		t.Errorf("state claimed column %d, want 1", roles[RoleState])
	}
	if roles[RoleCounty] != 3 {
		t.Errorf("county claimed column %d, want 3", roles[RoleCounty])
	}
}

func TestInferRoles_StateCountyCombinedGoesToState(t *testing.T) {
	// A column containing both words claims STATE (its rule runs
	// first); COUNTY's rule excludes STATE-bearing names.
	roles := InferRoles([]string{"STATE_COUNTY", "PLAN_ENROLLMENT"})
	if idx, ok := roles[RoleState]; !ok || idx != 0 {
		t.Errorf("state = %d (%v), want 0", idx, ok)
	}
	if _, ok := roles[RoleCounty]; ok {
		t.Error("county claimed from a STATE-bearing column")
	}
}

func TestInferRoles_FirstClaimWins(t *testing.T) {
	roles := InferRoles([]string{"CONTRACT_ID", "CONTRACT_NBR"})
	if roles[RoleContractID] != 0 {
		t.Errorf("contract id claimed column %d, want first match", roles[RoleContractID])
	}
}

func TestInferRoles_ColumnOrderClaims(t *testing.T) {
	// Claims run column by column, so when two columns both satisfy
	// an enrollment rule the earlier column takes the role.
	roles := InferRoles([]string{"MEMBERSHIP_REGION", "ENROLLED"})
	if roles[RoleEnrollment] != 0 {
		t.Errorf("enrollment = %d, want 0", roles[RoleEnrollment])
	}
}

func TestInferRoles_SkipsReportPeriod(t *testing.T) {
	roles := InferRoles([]string{"REPORT_PERIOD", "ENROLLMENT_TOTAL"})
	if roles[RoleEnrollment] != 1 {
		t.Errorf("enrollment = %d, want 1 (REPORT_PERIOD never claimed)", roles[RoleEnrollment])
	}
}

func TestNormalize(t *testing.T) {
	tbl := &decode.RawTable{
		Columns: []string{"STATE", "COUNTY", "CONTRACT_NUMBER", "ORGANIZATION_NAME", "ENROLLED"},
		Rows: [][]string{
			{"CA", "Orange", "h1234", "Acme Health", "1500"},
			{"CA", "Alpine", "H1234", "Acme Health", "*"},
			{"", "", "", "", ""},
		},
	}
	rec, roles := Normalize(tbl, "2024-01")
	if _, ok := roles[RoleEnrollment]; !ok {
		t.Fatal("enrollment role not claimed")
	}
	if len(rec.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rec.Rows))
	}

	r0 := rec.Rows[0]
	if r0.Period != "2024-01" {
		t.Errorf("period = %q", r0.Period)
	}
	if r0.ContractID == nil || *r0.ContractID != "H1234" {
		t.Errorf("contract id not normalized: %v", r0.ContractID)
	}
	if r0.Enrollment == nil || *r0.Enrollment != 1500 {
		t.Errorf("enrollment = %v", r0.Enrollment)
	}

	if r1 := rec.Rows[1]; r1.Enrollment == nil || *r1.Enrollment != 5 {
		t.Errorf("suppressed enrollment = %v, want 5", r1.Enrollment)
	}

	r2 := rec.Rows[2]
	if r2.State != nil || r2.ContractID != nil || r2.Enrollment != nil {
		t.Errorf("blank row should normalize to nils: %+v", r2)
	}
}

func TestNormalize_NoEnrollmentColumn(t *testing.T) {
	tbl := &decode.RawTable{
		Columns: []string{"STATE", "COUNTY"},
		Rows:    [][]string{{"CA", "Orange"}},
	}
	rec, roles := Normalize(tbl, "2024-01")
	if _, ok := roles[RoleEnrollment]; ok {
		t.Fatal("enrollment role claimed with no such column")
	}
	if len(rec.Rows) != 1 || rec.Rows[0].Enrollment != nil {
		t.Errorf("soft failure should still produce rows with nil enrollment")
	}
}
