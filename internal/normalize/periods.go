package normalize

import (
	"fmt"
	"time"
)

const periodLayout = "2006-01"

// ParsePeriod validates a YYYY-MM period identifier.
func ParsePeriod(p string) (time.Time, error) {
	t, err := time.Parse(periodLayout, p)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q: %w", p, err)
	}
	return t, nil
}

// PriorMonth returns the calendar month before p, or "" if p is invalid.
func PriorMonth(p string) string {
	t, err := ParsePeriod(p)
	if err != nil {
		return ""
	}
	return t.AddDate(0, -1, 0).Format(periodLayout)
}

// SameMonthPriorYear returns the same month one year before p.
func SameMonthPriorYear(p string) string {
	t, err := ParsePeriod(p)
	if err != nil {
		return ""
	}
	return t.AddDate(-1, 0, 0).Format(periodLayout)
}

// PriorDecember returns December of the year before p.
func PriorDecember(p string) string {
	t, err := ParsePeriod(p)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-12", t.Year()-1)
}
