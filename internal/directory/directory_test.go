package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nrunyard/cma-ma-enrollment/internal/decode"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
)

func cons() *orgs.Consolidator {
	return orgs.NewConsolidator(orgs.DefaultTable)
}

func TestParse_ExactColumns(t *testing.T) {
	tbl := &decode.RawTable{
		Columns: []string{"CONTRACT_NUMBER", "PARENT_ORGANIZATION", "PLAN_TYPE", "ENROLLMENT"},
		Rows: [][]string{
			{"H1001", "UNITEDHEALTHCARE", "LOCAL MA", "999"},
			{"h1001", "duplicate ignored", "HMO", "1"},
			{"H2002", "AETNA", "", "2"},
			{"", "blank id dropped", "", "3"},
		},
	}
	entries, diag, err := Parse(tbl, cons())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diag.ContractColumn != "CONTRACT_NUMBER" || diag.ContractByShape {
		t.Errorf("contract column diag: %+v", diag)
	}
	if diag.PlanTypeColumn != "PLAN_TYPE" {
		t.Errorf("plan type column = %q", diag.PlanTypeColumn)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.ContractID != "H1001" {
		t.Errorf("contract id = %q", e.ContractID)
	}
	if e.ParentOrganization != "UnitedHealth Group" {
		t.Errorf("parent not consolidated: %q", e.ParentOrganization)
	}
	if e.PlanType == nil || *e.PlanType != "Local Ma" {
		t.Errorf("plan type = %v", e.PlanType)
	}
	if entries[1].ParentOrganization != "CVS Health / Aetna" {
		t.Errorf("second parent = %q", entries[1].ParentOrganization)
	}
	if entries[1].PlanType != nil {
		t.Errorf("blank plan type should stay nil, got %v", *entries[1].PlanType)
	}
}

func TestParse_ValueShapeFallback(t *testing.T) {
	// No contract-like column name anywhere; the identifier column is
	// found by scanning values for the letter-plus-four-digits shape.
	rows := make([][]string, 8)
	for i := range rows {
		rows[i] = []string{"some plan", fmt.Sprintf("H%04d", 1000+i), "Parent Org"}
	}
	tbl := &decode.RawTable{
		Columns: []string{"PLAN_NAME", "IDENTIFIER", "PARENT_ORGANIZATION"},
		Rows:    rows,
	}
	entries, diag, err := Parse(tbl, cons())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !diag.ContractByShape || diag.ContractColumn != "IDENTIFIER" {
		t.Errorf("expected shape fallback on IDENTIFIER, got %+v", diag)
	}
	if len(entries) != 8 {
		t.Errorf("expected 8 entries, got %d", len(entries))
	}
}

func TestParse_ParentFallback(t *testing.T) {
	tbl := &decode.RawTable{
		Columns: []string{"CONTRACT_ID", "PARENT_COMPANY"},
		Rows:    [][]string{{"H1001", "HUMANA INC"}},
	}
	entries, _, err := Parse(tbl, cons())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entries[0].ParentOrganization != "Humana" {
		t.Errorf("parent = %q", entries[0].ParentOrganization)
	}
}

func TestParse_ColumnsNotFound(t *testing.T) {
	tbl := &decode.RawTable{
		Columns: []string{"PLAN_NAME", "STATE"},
		Rows:    [][]string{{"Acme Plan", "CA"}},
	}
	_, _, err := Parse(tbl, cons())
	if !errors.Is(err, ErrColumnsNotFound) {
		t.Fatalf("expected ErrColumnsNotFound, got %v", err)
	}
}
