// file: internal/search/score.go
// version: 1.2.0
// guid: 5e7f9a1b-3c4d-4e6f-8a0b-2c4d6e8f0a1b

package search

import (
	"strings"
	"time"

	"github.com/jstrand/notekeeper/internal/models"
)

// Field weights. These define the ranking order users see, so they are
// contracts rather than tuning knobs.
const (
	titleExactWeight    = 50
	titlePrefixWeight   = 30
	titleContainsWeight = 20
	titleTermWeight     = 5

	contentContainsWeight   = 10
	contentOccurrenceWeight = 2

	categoryExactWeight = 30
	categoryTermWeight  = 10

	hashtagExactWeight = 20
	hashtagTermWeight  = 8

	recencyWindowDays = 7
	recencyMaxBonus   = 5
)

// Score computes the relevance of a note against a free-text query. Missing
// fields contribute nothing; a query that normalizes to no terms scores 0.
func Score(note *models.Note, query string) float64 {
	if note == nil {
		return 0
	}
	cleaned := Normalize(query)
	terms := strings.Fields(cleaned)
	if len(terms) == 0 {
		return 0
	}

	var score float64

	if note.Title != "" {
		title := Normalize(note.Title)
		switch {
		case title == cleaned:
			score += titleExactWeight
		case strings.HasPrefix(title, cleaned):
			score += titlePrefixWeight
		case strings.Contains(title, cleaned):
			score += titleContainsWeight
		}
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += titleTermWeight
			}
		}
	}

	if note.Content != "" {
		content := Normalize(note.Content)
		if strings.Contains(content, cleaned) {
			score += contentContainsWeight
		}
		for _, term := range terms {
			score += contentOccurrenceWeight * float64(strings.Count(content, term))
		}
	}

	for _, category := range dedupeNormalized(note.Categories) {
		if category == cleaned {
			score += categoryExactWeight
		}
		for _, term := range terms {
			if strings.Contains(category, term) {
				score += categoryTermWeight
			}
		}
	}

	for _, hashtag := range dedupeNormalized(note.Hashtags) {
		if hashtag == cleaned {
			score += hashtagExactWeight
		}
		for _, term := range terms {
			if strings.Contains(hashtag, term) {
				score += hashtagTermWeight
			}
		}
	}

	score += recencyBonus(note.UpdatedAt, time.Now())

	return score
}

// recencyBonus rewards recently updated notes: max(0, 5 - days/2) inside a
// seven-day window, nothing beyond it.
func recencyBonus(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 0
	}
	days := int(now.Sub(updatedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days >= recencyWindowDays {
		return 0
	}
	bonus := recencyMaxBonus - days/2
	if bonus < 0 {
		return 0
	}
	return float64(bonus)
}

// dedupeNormalized normalizes entries and drops duplicates so a tag repeated
// on a note cannot double-count. Empty entries are skipped.
func dedupeNormalized(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		n := Normalize(e)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
