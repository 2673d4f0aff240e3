package normalize

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)

// ContractID trims, uppercases, and strips every character that is not
// an uppercase letter or digit. Both sides of the directory join use
// this, so keys compare byte-for-byte. Returns "" for blank input.
func ContractID(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return nonAlphanumeric.ReplaceAllString(s, "")
}

// contractShape is the known format of a CMS contract identifier: one
// letter followed by exactly four digits.
var contractShape = regexp.MustCompile(`^[A-Z]\d{4}$`)

// LooksLikeContractID reports whether a raw value matches the contract
// identifier shape. Used by the directory's value-shape column fallback.
func LooksLikeContractID(s string) bool {
	return contractShape.MatchString(strings.TrimSpace(s))
}
