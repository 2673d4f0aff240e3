package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
)

func strp(s string) *string { return &s }

func TestWriteLoad(t *testing.T) {
	v := 1500.0
	rows := []model.Row{
		{
			Period:             "2024-01",
			State:              strp("CA"),
			County:             strp("Orange"),
			ContractID:         strp("H1001"),
			ContractName:       strp("Acme Plan"),
			ParentOrganization: strp("Acme Group"),
			ContractType:       strp("Local MA / HMO / Cost / PACE"),
			Enrollment:         &v,
		},
		// Sparse row: unmatched, suppressed-to-nil enrollment.
		{Period: "2024-02"},
	}

	path := filepath.Join(t.TempDir(), "scc.parquet")
	if err := Write(path, rows); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.NumRows() != 2 {
		t.Errorf("NumRows = %d", r.NumRows())
	}
	r.Close()

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("loaded %d rows", len(back))
	}

	got := back[0]
	if got.Period != "2024-01" || got.Enrollment == nil || *got.Enrollment != 1500 {
		t.Errorf("row 0 = %+v", got)
	}
	if got.ParentOrganization == nil || *got.ParentOrganization != "Acme Group" {
		t.Errorf("parent = %v", got.ParentOrganization)
	}

	sparse := back[1]
	if sparse.Period != "2024-02" {
		t.Errorf("row 1 period = %q", sparse.Period)
	}
	if sparse.Enrollment != nil || sparse.State != nil || sparse.ParentOrganization != nil {
		t.Errorf("nil fields did not survive the round trip: %+v", sparse)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.parquet")); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
