// file: internal/search/engine.go
// version: 1.4.0
// guid: 7a9b1c3d-5e6f-4a8b-0c2d-4e6f8a0b2c3d

package search

import (
	"sort"
	"strings"
	"time"

	"github.com/jstrand/notekeeper/internal/models"
)

// Options controls the filtering phase of Search. The field toggles decide
// which fields can qualify a note as a match; scoring always runs over the
// full note regardless, so a note qualified by its title may still pick up
// score from a disabled field.
type Options struct {
	SearchInTitle      bool
	SearchInContent    bool
	SearchInCategories bool
	SearchInHashtags   bool

	// FilterByCategory requires the exact category path on a note.
	FilterByCategory string

	// OnlyRecentNotes excludes notes created more than 30 days ago.
	OnlyRecentNotes bool

	// Limit caps the number of results after sorting. Zero means unlimited.
	Limit int
}

// DefaultOptions enables matching on every field with no pre-filters.
func DefaultOptions() Options {
	return Options{
		SearchInTitle:      true,
		SearchInContent:    true,
		SearchInCategories: true,
		SearchInHashtags:   true,
	}
}

// Result pairs a note with its relevance score and the normalized terms the
// engine matched with, so callers can highlight consistently.
type Result struct {
	Note  *models.Note `json:"note"`
	Score float64      `json:"score"`
	Terms []string     `json:"terms"`
}

// Notes projects results down to bare notes, preserving order.
func Notes(results []Result) []models.Note {
	notes := make([]models.Note, 0, len(results))
	for _, r := range results {
		notes = append(notes, *r.Note)
	}
	return notes
}

const recentNoteWindow = 30 * 24 * time.Hour

// Search runs the two-phase engine: filter the eligible subset, then score
// every survivor against the full query and sort by descending relevance.
// The sort is stable so ties keep their input order and repeated calls with
// the same snapshot return identical sequences. An empty query or an empty
// snapshot yields an empty result, never an error.
func Search(notes []models.Note, query string, opts Options) []Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	now := time.Now()
	var results []Result
	for i := range notes {
		note := &notes[i]
		if opts.FilterByCategory != "" && !note.HasCategory(opts.FilterByCategory) {
			continue
		}
		if opts.OnlyRecentNotes && (note.CreatedAt.IsZero() || now.Sub(note.CreatedAt) > recentNoteWindow) {
			continue
		}
		if !matchesEnabledFields(note, terms, opts) {
			continue
		}
		score := Score(note, query)
		if score <= 0 {
			continue
		}
		results = append(results, Result{Note: note, Score: score, Terms: terms})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// matchesEnabledFields is the membership test of the filtering phase: at
// least one enabled field must contain at least one search term.
func matchesEnabledFields(note *models.Note, terms []string, opts Options) bool {
	if opts.SearchInTitle && note.Title != "" {
		if containsAny(Normalize(note.Title), terms) {
			return true
		}
	}
	if opts.SearchInContent && note.Content != "" {
		if containsAny(Normalize(note.Content), terms) {
			return true
		}
	}
	if opts.SearchInCategories {
		for _, c := range note.Categories {
			if containsAny(Normalize(c), terms) {
				return true
			}
		}
	}
	if opts.SearchInHashtags {
		for _, h := range note.Hashtags {
			if containsAny(Normalize(h), terms) {
				return true
			}
		}
	}
	return false
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// Strict/fuzzy fallback weights.
const (
	strictTitleWeight = 3
	strictFieldWeight = 2

	fuzzyTitleWeight   = 3.0
	fuzzyFieldWeight   = 2.0
	fuzzyMaxDistance   = 2
	fuzzyDistanceSlope = 0.5
)

// PerformSearch is the simple entry point used when no explicit options are
// given. It first tries a strict pass (whole cleaned query as a substring of
// each field); only when that yields nothing does it fall back to fuzzy
// word-by-word matching via edit distance. The two passes are never merged.
func PerformSearch(notes []models.Note, query string) []Result {
	results, _ := PerformSearchWithMode(notes, query)
	return results
}

// PerformSearchWithMode is PerformSearch plus a flag reporting whether the
// fuzzy fallback produced the results (the strict pass came up empty).
func PerformSearchWithMode(notes []models.Note, query string) ([]Result, bool) {
	cleaned := Normalize(query)
	if cleaned == "" {
		return nil, false
	}
	terms := strings.Fields(cleaned)

	fuzzy := false
	results := strictPass(notes, cleaned, terms)
	if len(results) == 0 {
		results = fuzzyPass(notes, terms)
		fuzzy = len(results) > 0
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, fuzzy
}

func strictPass(notes []models.Note, cleaned string, terms []string) []Result {
	var results []Result
	for i := range notes {
		note := &notes[i]
		var score float64
		if note.Title != "" && strings.Contains(Normalize(note.Title), cleaned) {
			score += strictTitleWeight
		}
		if note.Content != "" && strings.Contains(Normalize(note.Content), cleaned) {
			score += strictFieldWeight
		}
		for _, c := range note.Categories {
			if strings.Contains(Normalize(c), cleaned) {
				score += strictFieldWeight
			}
		}
		for _, h := range note.Hashtags {
			if strings.Contains(Normalize(h), cleaned) {
				score += strictFieldWeight
			}
		}
		if score > 0 {
			results = append(results, Result{Note: note, Score: score, Terms: terms})
		}
	}
	return results
}

func fuzzyPass(notes []models.Note, terms []string) []Result {
	var results []Result
	for i := range notes {
		note := &notes[i]
		var score float64
		score += fuzzyFieldScore(terms, Normalize(note.Title), fuzzyTitleWeight)
		score += fuzzyFieldScore(terms, Normalize(note.Content), fuzzyFieldWeight)
		for _, c := range note.Categories {
			score += fuzzyFieldScore(terms, Normalize(c), fuzzyFieldWeight)
		}
		for _, h := range note.Hashtags {
			score += fuzzyFieldScore(terms, Normalize(h), fuzzyFieldWeight)
		}
		if score > 0 {
			results = append(results, Result{Note: note, Score: score, Terms: terms})
		}
	}
	return results
}

// fuzzyFieldScore compares every query word against every word of the field;
// a pair within the distance budget contributes weight - 0.5*distance.
func fuzzyFieldScore(terms []string, field string, weight float64) float64 {
	if field == "" {
		return 0
	}
	words := strings.Fields(field)
	var score float64
	for _, term := range terms {
		for _, word := range words {
			if d := LevenshteinDistance(term, word); d <= fuzzyMaxDistance {
				score += weight - float64(d)*fuzzyDistanceSlope
			}
		}
	}
	return score
}
