// file: internal/search/normalize.go
// version: 1.1.0
// guid: 2c4d6e8f-0a1b-4c3d-9e5f-7a8b9c0d1e2f

package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks and recomposes,
// so "é" becomes "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text, strips diacritical marks and collapses runs of
// whitespace to a single space. It is idempotent and safe on empty input,
// and every comparison in this package operates on its output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Malformed UTF-8; fall back to the raw text rather than failing.
		folded = text
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Terms normalizes a query and splits it into non-empty search terms.
// Duplicate terms are preserved.
func Terms(query string) []string {
	return strings.Fields(Normalize(query))
}
