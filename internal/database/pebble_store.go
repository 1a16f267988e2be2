// file: internal/database/pebble_store.go
// version: 2.0.0
// guid: 2b4c6d8e-0f1a-4b5c-7d9e-1f3a5b7c9d0e

package database

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble/v2"

	"github.com/jstrand/notekeeper/internal/models"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - note:<ulid>                -> Note JSON
// - notecat:<path>:<ulid>      -> note_id (for category queries)
// - notetag:<tag>:<ulid>       -> note_id (for hashtag queries)
// - category:<id>              -> Category JSON
// - category:path:<path>       -> category_id (for lookups)
// - preference:<key>           -> value string
// - counter:category           -> next category ID

type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}

	store := &PebbleStore{db: db}

	// Initialize the category counter if it doesn't exist
	key := []byte("counter:category")
	if _, closer, err := db.Get(key); err == pebble.ErrNotFound {
		if err := db.Set(key, []byte("1"), pebble.Sync); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize category counter: %w", err)
		}
	} else if err == nil {
		closer.Close()
	} else {
		db.Close()
		return nil, fmt.Errorf("failed to check category counter: %w", err)
	}

	return store, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// Reset drops all data and reinitializes counters
func (p *PebbleStore) Reset() error {
	if err := p.db.DeleteRange([]byte(""), []byte("\xff\xff\xff\xff"), pebble.Sync); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	return p.db.Set([]byte("counter:category"), []byte("1"), pebble.Sync)
}

// Helper functions

func (p *PebbleStore) nextID(counter string) (int, error) {
	key := []byte(fmt.Sprintf("counter:%s", counter))

	value, closer, err := p.db.Get(key)
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	id, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, err
	}

	nextID := id + 1
	if err := p.db.Set(key, []byte(strconv.Itoa(nextID)), pebble.Sync); err != nil {
		return 0, err
	}

	return id, nil
}

// Note operations

func (p *PebbleStore) getNoteRaw(id string) (*models.Note, error) {
	key := []byte(fmt.Sprintf("note:%s", id))
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var note models.Note
	if err := json.Unmarshal(value, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// noteIndexKeys returns the category and hashtag index keys for a note.
func noteIndexKeys(note *models.Note) [][]byte {
	var keys [][]byte
	for _, path := range note.Categories {
		keys = append(keys, []byte(fmt.Sprintf("notecat:%s:%s", path, note.ID)))
	}
	for _, tag := range note.Hashtags {
		keys = append(keys, []byte(fmt.Sprintf("notetag:%s:%s", tag, note.ID)))
	}
	return keys
}

func (p *PebbleStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	var notes []models.Note
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("note:0"),
		UpperBound: []byte("note:~"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var note models.Note
		if err := json.Unmarshal(iter.Value(), &note); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	// Most recently updated first, ID as a stable tiebreaker
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})

	if offset > 0 {
		if offset >= len(notes) {
			return nil, nil
		}
		notes = notes[offset:]
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (p *PebbleStore) GetNoteByID(id string) (*models.Note, error) {
	return p.getNoteRaw(id)
}

func (p *PebbleStore) CreateNote(note *models.Note) (*models.Note, error) {
	if err := stampNote(note); err != nil {
		return nil, err
	}

	data, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	key := []byte(fmt.Sprintf("note:%s", note.ID))
	if err := batch.Set(key, data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	for _, indexKey := range noteIndexKeys(note) {
		if err := batch.Set(indexKey, []byte(note.ID), nil); err != nil {
			batch.Close()
			return nil, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return note, nil
}

func (p *PebbleStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	existing, err := p.getNoteRaw(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
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

	data, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	// Drop stale index entries before writing the new ones
	for _, indexKey := range noteIndexKeys(existing) {
		if err := batch.Delete(indexKey, nil); err != nil {
			batch.Close()
			return nil, err
		}
	}
	if err := batch.Set([]byte(fmt.Sprintf("note:%s", id)), data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	for _, indexKey := range noteIndexKeys(note) {
		if err := batch.Set(indexKey, []byte(id), nil); err != nil {
			batch.Close()
			return nil, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return note, nil
}

func (p *PebbleStore) DeleteNote(id string) error {
	existing, err := p.getNoteRaw(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("note not found")
	}

	batch := p.db.NewBatch()
	if err := batch.Delete([]byte(fmt.Sprintf("note:%s", id)), nil); err != nil {
		batch.Close()
		return err
	}
	for _, indexKey := range noteIndexKeys(existing) {
		if err := batch.Delete(indexKey, nil); err != nil {
			batch.Close()
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *PebbleStore) CountNotes() (int, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("note:0"),
		UpperBound: []byte("note:~"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}

// notesByIndex resolves note IDs from an index key prefix and loads them.
func (p *PebbleStore) notesByIndex(prefix string) ([]models.Note, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Value()))
	}

	var notes []models.Note
	for _, id := range ids {
		note, err := p.getNoteRaw(id)
		if err != nil {
			return nil, err
		}
		if note != nil {
			notes = append(notes, *note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

func (p *PebbleStore) GetNotesByCategory(path string) ([]models.Note, error) {
	return p.notesByIndex(fmt.Sprintf("notecat:%s:", path))
}

func (p *PebbleStore) GetNotesByHashtag(tag string) ([]models.Note, error) {
	return p.notesByIndex(fmt.Sprintf("notetag:%s:", strings.ToLower(tag)))
}

// Category operations

func (p *PebbleStore) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("category:0"),
		UpperBound: []byte("category:~"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		// Skip index keys
		if strings.Contains(string(iter.Key()), ":path:") {
			continue
		}

		var category models.Category
		if err := json.Unmarshal(iter.Value(), &category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Path < categories[j].Path
	})
	return categories, nil
}

func (p *PebbleStore) getCategoryByID(id int) (*models.Category, error) {
	key := []byte(fmt.Sprintf("category:%d", id))
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var category models.Category
	if err := json.Unmarshal(value, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (p *PebbleStore) GetCategoryByPath(path string) (*models.Category, error) {
	indexKey := []byte(fmt.Sprintf("category:path:%s", path))
	value, closer, err := p.db.Get(indexKey)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	id, err := strconv.Atoi(string(value))
	if err != nil {
		return nil, err
	}
	return p.getCategoryByID(id)
}

func (p *PebbleStore) CreateCategory(path string) (*models.Category, error) {
	// Idempotent on path
	existing, err := p.GetCategoryByPath(path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id, err := p.nextID("category")
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: id, Path: path, CreatedAt: nowUTC()}
	data, err := json.Marshal(category)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	key := []byte(fmt.Sprintf("category:%d", id))
	indexKey := []byte(fmt.Sprintf("category:path:%s", path))

	if err := batch.Set(key, data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Set(indexKey, []byte(strconv.Itoa(id)), nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return category, nil
}

func (p *PebbleStore) DeleteCategory(path string) error {
	existing, err := p.GetCategoryByPath(path)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("category not found")
	}

	batch := p.db.NewBatch()
	if err := batch.Delete([]byte(fmt.Sprintf("category:%d", existing.ID)), nil); err != nil {
		batch.Close()
		return err
	}
	if err := batch.Delete([]byte(fmt.Sprintf("category:path:%s", path)), nil); err != nil {
		batch.Close()
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return err
	}

	// Detach the path from any notes still carrying it
	notes, err := p.GetNotesByCategory(path)
	if err != nil {
		return err
	}
	for i := range notes {
		note := notes[i]
		var kept []string
		for _, c := range note.Categories {
			if c != path {
				kept = append(kept, c)
			}
		}
		note.Categories = kept
		if _, err := p.UpdateNote(note.ID, &note); err != nil {
			return err
		}
	}
	return nil
}

func (p *PebbleStore) CountCategories() (int, error) {
	categories, err := p.GetAllCategories()
	if err != nil {
		return 0, err
	}
	return len(categories), nil
}

// GetHashtagCounts tallies hashtags from the notetag index, most used first.
func (p *PebbleStore) GetHashtagCounts() ([]models.HashtagCount, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("notetag:"),
		UpperBound: []byte("notetag:\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	tally := make(map[string]int)
	for iter.First(); iter.Valid(); iter.Next() {
		// notetag:<tag>:<ulid>
		key := strings.TrimPrefix(string(iter.Key()), "notetag:")
		idx := strings.LastIndex(key, ":")
		if idx < 0 {
			continue
		}
		tally[key[:idx]]++
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
	return counts, nil
}

// Preference operations

func (p *PebbleStore) GetPreference(key string) (string, error) {
	value, closer, err := p.db.Get([]byte(fmt.Sprintf("preference:%s", key)))
	if err == pebble.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer closer.Close()
	return string(value), nil
}

func (p *PebbleStore) SetPreference(key, value string) error {
	return p.db.Set([]byte(fmt.Sprintf("preference:%s", key)), []byte(value), pebble.Sync)
}
