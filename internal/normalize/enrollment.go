package normalize

import (
	"strconv"
	"strings"
)

// SuppressedImputation is the documented midpoint estimate for a
// suppressed county-level count (CMS withholds counts under 11).
const SuppressedImputation = 5

// Enrollment resolves a raw enrollment cell to a numeric value.
// Three cases, which must stay distinguishable downstream:
//   - parseable number → its value
//   - empty or a textual "nan" marker → nil (not reported)
//   - anything else → 5 (reported as suppressed)
func Enrollment(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	v := float64(SuppressedImputation)
	return &v
}
