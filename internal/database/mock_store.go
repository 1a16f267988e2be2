// file: internal/database/mock_store.go
// version: 1.1.0
// guid: 3c5d7e9f-1a2b-4c6d-8e0f-2a4b6c8d0e1f

package database

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jstrand/notekeeper/internal/models"
)

// MockStore is an in-memory Store used by tests.
type MockStore struct {
	mu          sync.RWMutex
	notes       map[string]models.Note
	categories  map[string]models.Category // keyed by path
	preferences map[string]string
	nextCatID   int
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{
		notes:       make(map[string]models.Note),
		categories:  make(map[string]models.Category),
		preferences: make(map[string]string),
		nextCatID:   1,
	}
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = make(map[string]models.Note)
	m.categories = make(map[string]models.Category)
	m.preferences = make(map[string]string)
	m.nextCatID = 1
	return nil
}

func sortNotes(notes []models.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
}

func (m *MockStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := make([]models.Note, 0, len(m.notes))
	for _, n := range m.notes {
		notes = append(notes, n)
	}
	sortNotes(notes)

	if offset > 0 {
		if offset >= len(notes) {
			return nil, nil
		}
		notes = notes[offset:]
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	if len(notes) == 0 {
		return nil, nil
	}
	return notes, nil
}

func (m *MockStore) GetNoteByID(id string) (*models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if note, ok := m.notes[id]; ok {
		return &note, nil
	}
	return nil, nil
}

func (m *MockStore) CreateNote(note *models.Note) (*models.Note, error) {
	if err := stampNote(note); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.ID] = *note
	return note, nil
}

func (m *MockStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.notes[id]
	if !ok {
		return nil, fmt.Errorf("note not found")
	}
	note.ID = id
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = nowUTC()
	if note.LastRevisitedAt == nil {
		note.LastRevisitedAt = existing.LastRevisitedAt
	}
	if note.RevisitCount == 0 {
		note.RevisitCount = existing.RevisitCount
	}
	m.notes[id] = *note
	return note, nil
}

func (m *MockStore) DeleteNote(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return fmt.Errorf("note not found")
	}
	delete(m.notes, id)
	return nil
}

func (m *MockStore) CountNotes() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes), nil
}

func (m *MockStore) GetNotesByCategory(path string) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var notes []models.Note
	for _, n := range m.notes {
		if n.HasCategory(path) {
			notes = append(notes, n)
		}
	}
	sortNotes(notes)
	return notes, nil
}

func (m *MockStore) GetNotesByHashtag(tag string) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tag = strings.ToLower(tag)
	var notes []models.Note
	for _, n := range m.notes {
		for _, t := range n.Hashtags {
			if t == tag {
				notes = append(notes, n)
				break
			}
		}
	}
	sortNotes(notes)
	return notes, nil
}

func (m *MockStore) GetAllCategories() ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Path < categories[j].Path
	})
	if len(categories) == 0 {
		return nil, nil
	}
	return categories, nil
}

func (m *MockStore) GetCategoryByPath(path string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[path]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MockStore) CreateCategory(path string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.categories[path]; ok {
		return &c, nil
	}
	c := models.Category{ID: m.nextCatID, Path: path, CreatedAt: nowUTC()}
	m.nextCatID++
	m.categories[path] = c
	return &c, nil
}

func (m *MockStore) DeleteCategory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[path]; !ok {
		return fmt.Errorf("category not found")
	}
	delete(m.categories, path)
	for id, note := range m.notes {
		var kept []string
		for _, c := range note.Categories {
			if c != path {
				kept = append(kept, c)
			}
		}
		note.Categories = kept
		m.notes[id] = note
	}
	return nil
}

func (m *MockStore) CountCategories() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.categories), nil
}

func (m *MockStore) GetHashtagCounts() ([]models.HashtagCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tally := make(map[string]int)
	for _, n := range m.notes {
		for _, t := range n.Hashtags {
			tally[t]++
		}
	}
	counts := make([]models.HashtagCount, 0, len(tally))
	for tag, n := range tally {
		counts = append(counts, models.HashtagCount{Tag: tag, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	if len(counts) == 0 {
		return nil, nil
	}
	return counts, nil
}

func (m *MockStore) GetPreference(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preferences[key], nil
}

func (m *MockStore) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[key] = value
	return nil
}
