package dataset

import (
	"sort"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
)

const (
	topUnmatchedLimit = 10
	sampleLimit       = 5
)

// IDCount is one unmatched contract identifier and its row frequency.
type IDCount struct {
	ContractID string
	Count      int
}

// JoinDiagnostics surfaces join quality: join failures are the dominant
// silent-correctness risk, so they must be observable, not just logged.
type JoinDiagnostics struct {
	TotalRows  int
	Matched    int
	MatchedPct float64

	// TopUnmatched lists the most frequent enrollment-side identifiers
	// with no directory entry.
	TopUnmatched []IDCount

	// Identifier previews from each side of the join.
	DirectorySample  []string
	EnrollmentSample []string

	unmatchedCounts map[string]int
	enrollmentSeen  map[string]bool
}

func newJoinDiagnostics(totalRows int, entries []model.OrganizationEntry) *JoinDiagnostics {
	d := &JoinDiagnostics{
		TotalRows:       totalRows,
		unmatchedCounts: make(map[string]int),
		enrollmentSeen:  make(map[string]bool),
	}
	for _, e := range entries {
		if len(d.DirectorySample) < sampleLimit {
			d.DirectorySample = append(d.DirectorySample, e.ContractID)
		}
	}
	return d
}

func (d *JoinDiagnostics) observeEnrollmentID(id string) {
	if !d.enrollmentSeen[id] {
		d.enrollmentSeen[id] = true
		if len(d.EnrollmentSample) < sampleLimit {
			d.EnrollmentSample = append(d.EnrollmentSample, id)
		}
	}
}

func (d *JoinDiagnostics) observeUnmatched(id string) {
	d.unmatchedCounts[id]++
}

func (d *JoinDiagnostics) finish() {
	if d.TotalRows > 0 {
		d.MatchedPct = 100 * float64(d.Matched) / float64(d.TotalRows)
	}
	for id, n := range d.unmatchedCounts {
		d.TopUnmatched = append(d.TopUnmatched, IDCount{ContractID: id, Count: n})
	}
	sort.Slice(d.TopUnmatched, func(i, j int) bool {
		if d.TopUnmatched[i].Count != d.TopUnmatched[j].Count {
			return d.TopUnmatched[i].Count > d.TopUnmatched[j].Count
		}
		return d.TopUnmatched[i].ContractID < d.TopUnmatched[j].ContractID
	})
	if len(d.TopUnmatched) > topUnmatchedLimit {
		d.TopUnmatched = d.TopUnmatched[:topUnmatchedLimit]
	}
}
