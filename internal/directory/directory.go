// Package directory parses the MA plan directory table into a
// deduplicated organization lookup with column-selection diagnostics.
package directory

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nrunyard/cma-ma-enrollment/internal/decode"
	"github.com/nrunyard/cma-ma-enrollment/internal/model"
	"github.com/nrunyard/cma-ma-enrollment/internal/normalize"
	"github.com/nrunyard/cma-ma-enrollment/internal/orgs"
)

// ErrColumnsNotFound means neither heuristic pass could locate a
// contract-identifier or parent-organization column. The caller degrades
// the join rather than aborting.
var ErrColumnsNotFound = errors.New("directory: contract or parent organization column not found")

var (
	contractNamePattern = regexp.MustCompile(`CONTRACT.*(NUMBER|NUM|NBR|ID|NO)`)
	planTypePattern     = regexp.MustCompile(`(PLAN|CONTRACT).*(TYPE|TYP)`)
)

// exact contract column names checked before any pattern matching.
var exactContractColumns = []string{"CONTRACT_NUMBER", "CONTRACT_ID", "CONTRACT_NO", "CONTRACT_NBR"}

const (
	shapeScanLimit = 30 // non-null values scanned per column
	shapeMinHits   = 5  // matches required to claim the column
)

// Diagnostics records which raw column was selected for each role.
// Join failures are the dominant silent-correctness risk, so column
// picks are surfaced, not just logged.
type Diagnostics struct {
	ContractColumn  string
	ContractByShape bool // column found by value-shape fallback, not name
	ParentColumn    string
	PlanTypeColumn  string
	RowsRead        int
	EntriesKept     int
}

// Parse extracts deduplicated OrganizationEntry rows from the directory
// table. Parent names are consolidated; contract identifiers are
// normalized with the same rule as the enrollment side. Duplicate join
// keys keep the first occurrence.
//
// Only the three selected columns survive: any other directory column,
// including an enrollment-like one that would collide with the
// enrollment table after the join, is dropped here.
func Parse(t *decode.RawTable, c *orgs.Consolidator) ([]model.OrganizationEntry, *Diagnostics, error) {
	diag := &Diagnostics{RowsRead: len(t.Rows)}

	contractIdx := findContractColumn(t, diag)
	parentIdx := findParentColumn(t)
	typeIdx := findColumn(t.Columns, func(col string) bool {
		return planTypePattern.MatchString(col)
	})

	if contractIdx < 0 || parentIdx < 0 {
		return nil, diag, ErrColumnsNotFound
	}
	if contractIdx >= 0 && !diag.ContractByShape {
		diag.ContractColumn = t.Columns[contractIdx]
	}
	diag.ParentColumn = t.Columns[parentIdx]
	if typeIdx >= 0 {
		diag.PlanTypeColumn = t.Columns[typeIdx]
	}

	seen := make(map[string]bool, len(t.Rows))
	entries := make([]model.OrganizationEntry, 0, len(t.Rows))
	for i := range t.Rows {
		id := normalize.ContractID(t.Cell(i, contractIdx))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		entry := model.OrganizationEntry{
			ContractID:         id,
			ParentOrganization: c.Consolidate(t.Cell(i, parentIdx)),
		}
		if typeIdx >= 0 {
			if pt := strings.TrimSpace(t.Cell(i, typeIdx)); pt != "" {
				titled := normalize.TitleCase(pt)
				entry.PlanType = &titled
			}
		}
		entries = append(entries, entry)
	}
	diag.EntriesKept = len(entries)
	return entries, diag, nil
}

func findContractColumn(t *decode.RawTable, diag *Diagnostics) int {
	for _, name := range exactContractColumns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			return idx
		}
	}
	if idx := findColumn(t.Columns, contractNamePattern.MatchString); idx >= 0 {
		return idx
	}

	// Last resort: scan cell values for the identifier shape (one
	// letter followed by exactly four digits).
	for col := range t.Columns {
		scanned, hits := 0, 0
		for row := 0; row < len(t.Rows) && scanned < shapeScanLimit; row++ {
			v := strings.TrimSpace(t.Cell(row, col))
			if v == "" {
				continue
			}
			scanned++
			if normalize.LooksLikeContractID(v) {
				hits++
			}
		}
		if hits >= shapeMinHits {
			diag.ContractByShape = true
			diag.ContractColumn = t.Columns[col]
			return col
		}
	}
	return -1
}

func findParentColumn(t *decode.RawTable) int {
	if idx := t.ColumnIndex("PARENT_ORGANIZATION"); idx >= 0 {
		return idx
	}
	if idx := findColumn(t.Columns, func(col string) bool {
		return strings.Contains(col, "PARENT") && strings.Contains(col, "ORG")
	}); idx >= 0 {
		return idx
	}
	return findColumn(t.Columns, func(col string) bool {
		return strings.Contains(col, "PARENT")
	})
}

func findColumn(columns []string, match func(string) bool) int {
	for i, col := range columns {
		if match(col) {
			return i
		}
	}
	return -1
}
