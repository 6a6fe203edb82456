package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases s and strips diacritics, so "Gelo & Carvão" and
// "gelo & carvao" compare equal. Product names and categories are
// Portuguese; every fuzzy comparison in the system goes through here.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ContainsAny reports whether the normalized text contains any of the
// keywords as a substring. Substring, not token, matching: "gelo" matches
// "gelox" too, which the suggestion rules accept as close enough.
func ContainsAny(text string, keywords []string) bool {
	t := Normalize(text)
	for _, k := range keywords {
		if strings.Contains(t, Normalize(k)) {
			return true
		}
	}
	return false
}
