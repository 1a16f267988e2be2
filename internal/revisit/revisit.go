// file: internal/revisit/revisit.go
// version: 1.0.0
// guid: 5e7f9a1b-3c4d-4e8f-0a2b-4c6d8e0f2a3b

package revisit

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
)

// DefaultIntervals is the spaced-repetition ladder in days. A note becomes
// due one day after creation, then a week after the first revisit, then
// monthly. The last interval repeats.
var DefaultIntervals = []int{1, 7, 30}

// intervalsKey is the preference key holding comma-separated day counts.
const intervalsKey = "revisit_intervals"

// Intervals returns the configured revisit intervals, falling back to the
// defaults when the preference is unset or unparseable.
func Intervals(store database.Store) []int {
	raw, err := store.GetPreference(intervalsKey)
	if err != nil || raw == "" {
		return DefaultIntervals
	}

	var intervals []int
	for _, part := range strings.Split(raw, ",") {
		days, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || days <= 0 {
			log.Printf("[WARN] Ignoring invalid revisit intervals %q", raw)
			return DefaultIntervals
		}
		intervals = append(intervals, days)
	}
	if len(intervals) == 0 {
		return DefaultIntervals
	}
	return intervals
}

// SetIntervals stores a new interval ladder.
func SetIntervals(store database.Store, intervals []int) error {
	if len(intervals) == 0 {
		return fmt.Errorf("at least one interval is required")
	}
	parts := make([]string, len(intervals))
	for i, days := range intervals {
		if days <= 0 {
			return fmt.Errorf("intervals must be positive, got %d", days)
		}
		parts[i] = strconv.Itoa(days)
	}
	return store.SetPreference(intervalsKey, strings.Join(parts, ","))
}

// intervalFor picks the interval matching a note's revisit count. Counts past
// the end of the ladder keep using the last interval.
func intervalFor(intervals []int, revisitCount int) time.Duration {
	idx := revisitCount
	if idx >= len(intervals) {
		idx = len(intervals) - 1
	}
	return time.Duration(intervals[idx]) * 24 * time.Hour
}

// DueAt returns when a note should next be revisited. Never-revisited notes
// are anchored on their creation time.
func DueAt(note *models.Note, intervals []int) time.Time {
	anchor := note.CreatedAt
	if note.LastRevisitedAt != nil {
		anchor = *note.LastRevisitedAt
	}
	return anchor.Add(intervalFor(intervals, note.RevisitCount))
}

// Due lists the notes whose revisit time has passed, soonest-due first.
func Due(store database.Store, now time.Time) ([]models.RevisitItem, error) {
	notes, err := store.GetAllNotes(0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for revisit: %w", err)
	}

	intervals := Intervals(store)
	var items []models.RevisitItem
	for i := range notes {
		note := notes[i]
		dueAt := DueAt(&note, intervals)
		if dueAt.After(now) {
			continue
		}
		items = append(items, models.RevisitItem{
			Note:    note,
			DueAt:   dueAt,
			Overdue: now.Sub(dueAt) > 24*time.Hour,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].DueAt.Equal(items[j].DueAt) {
			return items[i].DueAt.Before(items[j].DueAt)
		}
		return items[i].Note.ID < items[j].Note.ID
	})
	return items, nil
}

// MarkRevisited records a completed revisit and advances the schedule.
func MarkRevisited(store database.Store, id string, now time.Time) (*models.Note, error) {
	note, err := store.GetNoteByID(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("note not found")
	}

	revisited := now.UTC()
	note.LastRevisitedAt = &revisited
	note.RevisitCount++
	return store.UpdateNote(id, note)
}
