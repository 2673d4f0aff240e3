package normalize

import (
	"strings"
	"unicode"
)

// Header canonicalizes a raw column name: trimmed, uppercased, spaces
// replaced with underscores.
func Header(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// TitleCase uppercases the first letter of every word and lowercases the
// rest, where a word starts after any non-letter. This matches the
// casing of the consolidation table keys exactly, so lookups hit them
// regardless of source casing.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
