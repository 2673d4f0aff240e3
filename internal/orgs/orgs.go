// Package orgs collapses known organization name variants (legal-entity
// renames, subsidiaries, acquisitions) to canonical parent names.
package orgs

import (
	"strings"

	"github.com/nrunyard/cma-ma-enrollment/internal/normalize"
)

// Table maps a title-cased name variant to its canonical parent name.
type Table map[string]string

// DefaultTable lists the known market-participant name variants. Keys
// are the title-cased forms produced by normalize.TitleCase.
var DefaultTable = Table{
	"Unitedhealthcare":                   "UnitedHealth Group",
	"Unitedhealth Group":                 "UnitedHealth Group",
	"United Healthcare":                  "UnitedHealth Group",
	"United Health Care":                 "UnitedHealth Group",
	"Aarp/Unitedhealthcare":              "UnitedHealth Group",
	"Ovations":                           "UnitedHealth Group",
	"Pacificare":                         "UnitedHealth Group",
	"Sierra Health And Life":             "UnitedHealth Group",
	"Americhoice":                        "UnitedHealth Group",
	"Cvs Health Corporation":             "CVS Health / Aetna",
	"Aetna":                              "CVS Health / Aetna",
	"Cvs Health":                         "CVS Health / Aetna",
	"Aetna Inc.":                         "CVS Health / Aetna",
	"Humana":                             "Humana",
	"Humana Inc.":                        "Humana",
	"Humana Inc":                         "Humana",
	"Elevance Health":                    "Elevance Health",
	"Anthem":                             "Elevance Health",
	"Anthem, Inc.":                       "Elevance Health",
	"Anthem Inc":                         "Elevance Health",
	"Centene Corporation":                "Centene",
	"Centene":                            "Centene",
	"Wellcare":                           "Centene",
	"Wellcare Health Plans":              "Centene",
	"Kaiser Foundation Health Plan":      "Kaiser Permanente",
	"Kaiser Foundation Health Plan, Inc": "Kaiser Permanente",
	"Kaiser":                             "Kaiser Permanente",
	"Cigna":                              "Cigna",
	"Cigna Corporation":                  "Cigna",
	"Cigna Healthcare":                   "Cigna",
	"Cigna-Healthspring":                 "Cigna",
	"Molina Healthcare":                  "Molina Healthcare",
	"Molina Healthcare, Inc":             "Molina Healthcare",
	"Scan Health Plan":                   "SCAN Health Plan",
	"Upmc Health Plan":                   "UPMC Health Plan",
}

// Consolidator resolves raw organization names against an injected
// variant table.
type Consolidator struct {
	table     Table
	canonical map[string]bool
}

// NewConsolidator builds a Consolidator over the given table. Pass
// DefaultTable for the standard mapping; tests can substitute their own.
func NewConsolidator(table Table) *Consolidator {
	canonical := make(map[string]bool, len(table))
	for _, v := range table {
		canonical[v] = true
	}
	return &Consolidator{table: table, canonical: canonical}
}

// Consolidate trims and title-cases a raw name, then maps it through the
// variant table. Names not in the table pass through title-cased
// (assumed already canonical or too small to consolidate). Canonical
// names are fixed points, so applying Consolidate twice equals once.
func (c *Consolidator) Consolidate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if c.canonical[trimmed] {
		return trimmed
	}
	titled := normalize.TitleCase(trimmed)
	if result, ok := c.table[titled]; ok {
		return result
	}
	return titled
}
