// file: internal/search/highlight.go
// version: 1.1.0
// guid: 8c0d2e4f-6a7b-4c9d-1e3f-5a7b9c1d3e4f

package search

import (
	"html"
	"strings"
	"unicode"
)

const (
	markOpen  = `<span class="highlighted-term">`
	markClose = `</span>`
)

// TagHighlight carries a highlighted chip label together with the original
// plain text, so a caller can toggle highlighting off without losing data.
type TagHighlight struct {
	Original string `json:"original"`
	Marked   string `json:"marked"`
}

// Highlight HTML-escapes text and wraps every case-insensitive occurrence of
// each term in a highlight span. Terms of length 1 or less are skipped to
// avoid noisy over-highlighting.
//
// Match spans are computed against the original text and rendered in a single
// pass, so markup inserted for one term can never be re-matched by another.
// Overlapping spans are merged into one.
func Highlight(text string, terms []string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	folded := foldRunes(runes)

	marked := make([]bool, len(runes))
	any := false
	for _, term := range terms {
		t := foldRunes([]rune(term))
		if len(t) <= 1 {
			continue
		}
		for start := 0; start+len(t) <= len(folded); {
			if !runesEqual(folded[start:start+len(t)], t) {
				start++
				continue
			}
			for k := start; k < start+len(t); k++ {
				marked[k] = true
			}
			any = true
			start += len(t)
		}
	}

	if !any {
		return html.EscapeString(text)
	}

	var b strings.Builder
	i := 0
	for i < len(runes) {
		j := i
		for j < len(runes) && marked[j] == marked[i] {
			j++
		}
		segment := html.EscapeString(string(runes[i:j]))
		if marked[i] {
			b.WriteString(markOpen)
			b.WriteString(segment)
			b.WriteString(markClose)
		} else {
			b.WriteString(segment)
		}
		i = j
	}
	return b.String()
}

// HighlightTag is the chip variant used for category and hashtag labels. The
// original plain text rides along so the caller can restore it later.
func HighlightTag(label string, terms []string) TagHighlight {
	return TagHighlight{
		Original: label,
		Marked:   Highlight(label, terms),
	}
}

// foldRunes lowercases rune by rune so folded offsets map one-to-one onto the
// original text.
func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
