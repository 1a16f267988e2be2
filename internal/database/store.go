// file: internal/database/store.go
// version: 2.3.0
// guid: 0f2a4b6c-8d9e-4f3a-5b7c-9d1e3f5a7b8c

package database

import (
	"crypto/rand"
	"fmt"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/jstrand/notekeeper/internal/models"
)

// Store defines the interface for note persistence.
// This abstraction allows us to support both SQLite3 (default) and PebbleDB.
type Store interface {
	// Lifecycle
	Close() error
	Reset() error

	// Notes
	GetAllNotes(limit, offset int) ([]models.Note, error)
	GetNoteByID(id string) (*models.Note, error)        // ID is ULID string
	CreateNote(note *models.Note) (*models.Note, error) // Generates ULID if empty
	UpdateNote(id string, note *models.Note) (*models.Note, error)
	DeleteNote(id string) error
	CountNotes() (int, error)
	GetNotesByCategory(path string) ([]models.Note, error)
	GetNotesByHashtag(tag string) ([]models.Note, error)

	// Categories
	GetAllCategories() ([]models.Category, error)
	GetCategoryByPath(path string) (*models.Category, error)
	CreateCategory(path string) (*models.Category, error)
	DeleteCategory(path string) error
	CountCategories() (int, error)

	// Hashtag tally across all notes
	GetHashtagCounts() ([]models.HashtagCount, error)

	// Preferences (key/value, e.g. revisit intervals)
	GetPreference(key string) (string, error)
	SetPreference(key, value string) error
}

// GlobalStore is the active store instance
var GlobalStore Store

// InitializeStore creates and assigns the global store based on the database type
func InitializeStore(databaseType, databasePath string) error {
	var store Store
	var err error

	switch databaseType {
	case "pebble":
		store, err = NewPebbleStore(databasePath)
	case "sqlite", "sqlite3", "":
		store, err = NewSQLiteStore(databasePath)
	default:
		return fmt.Errorf("unknown database type: %s", databaseType)
	}
	if err != nil {
		return err
	}

	GlobalStore = store
	return nil
}

// CloseStore closes the global store if set
func CloseStore() error {
	if GlobalStore == nil {
		return nil
	}
	err := GlobalStore.Close()
	GlobalStore = nil
	return err
}

// newULID generates a new ULID string for note IDs
func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// nowUTC returns the current time truncated for stable round-tripping
// through both SQLite and JSON encodings.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// stampNote fills in the ID and timestamps of a note about to be created.
func stampNote(note *models.Note) error {
	if note.ID == "" {
		id, err := newULID()
		if err != nil {
			return fmt.Errorf("failed to generate note ID: %w", err)
		}
		note.ID = id
	}
	now := nowUTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}
	return nil
}
