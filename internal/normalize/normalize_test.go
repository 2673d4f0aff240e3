package normalize

import "testing"

func TestEnrollment_Numeric(t *testing.T) {
	v := Enrollment(" 1234 ")
	if v == nil || *v != 1234 {
		t.Fatalf("expected 1234, got %v", v)
	}
}

func TestEnrollment_Missing(t *testing.T) {
	for _, raw := range []string{"", "   ", "nan", "NaN", "NAN"} {
		if v := Enrollment(raw); v != nil {
			t.Errorf("Enrollment(%q) = %v, want nil", raw, *v)
		}
	}
}

func TestEnrollment_Suppressed(t *testing.T) {
	// Any non-empty, non-numeric marker is a suppressed count,
	// including thousands-separated numbers, which never parse.
	for _, raw := range []string{"*", ".", "<11", "1,234"} {
		v := Enrollment(raw)
		if v == nil || *v != SuppressedImputation {
			t.Errorf("Enrollment(%q) = %v, want %d", raw, v, SuppressedImputation)
		}
	}
}

func TestContractID(t *testing.T) {
	cases := map[string]string{
		" h1234 ": "H1234",
		"H-1234":  "H1234",
		"h 1234":  "H1234",
		"":        "",
		"  ":      "",
	}
	for in, want := range cases {
		if got := ContractID(in); got != want {
			t.Errorf("ContractID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLooksLikeContractID(t *testing.T) {
	for _, ok := range []string{"H1234", "R9999", " S0001 "} {
		if !LooksLikeContractID(ok) {
			t.Errorf("LooksLikeContractID(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"H123", "H12345", "12345", "HH123", "Acme"} {
		if LooksLikeContractID(bad) {
			t.Errorf("LooksLikeContractID(%q) = true, want false", bad)
		}
	}
}

func TestHeader(t *testing.T) {
	if got := Header("  Contract Number "); got != "CONTRACT_NUMBER" {
		t.Fatalf("Header = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"UNITEDHEALTH GROUP, INC.": "Unitedhealth Group, Inc.",
		"cvs health":               "Cvs Health",
		"o'brien":                  "O'Brien",
		"ALREADY Titled":           "Already Titled",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPeriodDerivations(t *testing.T) {
	if got := PriorMonth("2024-01"); got != "2023-12" {
		t.Errorf("PriorMonth = %q", got)
	}
	if got := SameMonthPriorYear("2024-03"); got != "2023-03" {
		t.Errorf("SameMonthPriorYear = %q", got)
	}
	if got := PriorDecember("2024-03"); got != "2023-12" {
		t.Errorf("PriorDecember = %q", got)
	}
	if got := PriorMonth("not-a-period"); got != "" {
		t.Errorf("PriorMonth on invalid input = %q, want empty", got)
	}
}
