// file: internal/database/sqlite_store.go
// version: 2.1.0
// guid: 1a3b5c7d-9e0f-4a4b-6c8d-0e2f4a6b8c9d

package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jstrand/notekeeper/internal/models"
)

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT,
		content TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		last_revisited_at DATETIME,
		revisit_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at);
	CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);

	CREATE TABLE IF NOT EXISTS note_categories (
		note_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		path TEXT NOT NULL,
		PRIMARY KEY (note_id, position),
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_note_categories_path ON note_categories(path);

	CREATE TABLE IF NOT EXISTS note_hashtags (
		note_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (note_id, position),
		FOREIGN KEY (note_id) REFERENCES notes(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_note_hashtags_tag ON note_hashtags(tag);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops all data. Used by tests and the restore path.
func (s *SQLiteStore) Reset() error {
	for _, table := range []string{"note_categories", "note_hashtags", "notes", "categories", "preferences"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanNote(scanner rowScanner) (*models.Note, error) {
	var note models.Note
	var title sql.NullString
	var lastRevisited sql.NullTime
	err := scanner.Scan(
		&note.ID, &title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt,
		&lastRevisited, &note.RevisitCount,
	)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		note.Title = title.String
	}
	if lastRevisited.Valid {
		t := lastRevisited.Time
		note.LastRevisitedAt = &t
	}
	return &note, nil
}

// loadTags populates the categories and hashtags of a note, in stored order.
func (s *SQLiteStore) loadTags(note *models.Note) error {
	rows, err := s.db.Query(
		"SELECT path FROM note_categories WHERE note_id = ? ORDER BY position", note.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return err
		}
		note.Categories = append(note.Categories, path)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(
		"SELECT tag FROM note_hashtags WHERE note_id = ? ORDER BY position", note.ID)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return err
		}
		note.Hashtags = append(note.Hashtags, tag)
	}
	return tagRows.Err()
}

// saveTags rewrites the category and hashtag rows for a note inside tx.
func saveTags(tx *sql.Tx, note *models.Note) error {
	if _, err := tx.Exec("DELETE FROM note_categories WHERE note_id = ?", note.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM note_hashtags WHERE note_id = ?", note.ID); err != nil {
		return err
	}
	for i, path := range note.Categories {
		if _, err := tx.Exec(
			"INSERT INTO note_categories (note_id, position, path) VALUES (?, ?, ?)",
			note.ID, i, path); err != nil {
			return err
		}
	}
	for i, tag := range note.Hashtags {
		if _, err := tx.Exec(
			"INSERT INTO note_hashtags (note_id, position, tag) VALUES (?, ?, ?)",
			note.ID, i, tag); err != nil {
			return err
		}
	}
	return nil
}

const noteSelectColumns = `id, title, content, created_at, updated_at, last_revisited_at, revisit_count`

// GetAllNotes returns notes ordered by most recently updated first
func (s *SQLiteStore) GetAllNotes(limit, offset int) ([]models.Note, error) {
	query := "SELECT " + noteSelectColumns + " FROM notes ORDER BY updated_at DESC, id"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := s.scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range notes {
		if err := s.loadTags(&notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

func (s *SQLiteStore) GetNoteByID(id string) (*models.Note, error) {
	row := s.db.QueryRow("SELECT "+noteSelectColumns+" FROM notes WHERE id = ?", id)
	note, err := s.scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadTags(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) CreateNote(note *models.Note) (*models.Note, error) {
	if err := stampNote(note); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var title interface{}
	if note.Title != "" {
		title = note.Title
	}
	_, err = tx.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at, last_revisited_at, revisit_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID, title, note.Content, note.CreatedAt, note.UpdatedAt,
		note.LastRevisitedAt, note.RevisitCount)
	if err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}
	if err := saveTags(tx, note); err != nil {
		return nil, fmt.Errorf("failed to save note tags: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) UpdateNote(id string, note *models.Note) (*models.Note, error) {
	existing, err := s.GetNoteByID(id)
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

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var title interface{}
	if note.Title != "" {
		title = note.Title
	}
	_, err = tx.Exec(`
		UPDATE notes SET title = ?, content = ?, updated_at = ?, last_revisited_at = ?, revisit_count = ?
		WHERE id = ?`,
		title, note.Content, note.UpdatedAt, note.LastRevisitedAt, note.RevisitCount, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if err := saveTags(tx, note); err != nil {
		return nil, fmt.Errorf("failed to save note tags: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) DeleteNote(id string) error {
	result, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("note not found")
	}
	// Cascade is not guaranteed unless foreign_keys is on; clean up explicitly.
	if _, err := s.db.Exec("DELETE FROM note_categories WHERE note_id = ?", id); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM note_hashtags WHERE note_id = ?", id); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) CountNotes() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}

func (s *SQLiteStore) GetNotesByCategory(path string) ([]models.Note, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT n.id, n.title, n.content, n.created_at, n.updated_at, n.last_revisited_at, n.revisit_count
		FROM notes n JOIN note_categories nc ON nc.note_id = n.id
		WHERE nc.path = ?
		ORDER BY n.updated_at DESC, n.id`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := s.scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range notes {
		if err := s.loadTags(&notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

func (s *SQLiteStore) GetNotesByHashtag(tag string) ([]models.Note, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT n.id, n.title, n.content, n.created_at, n.updated_at, n.last_revisited_at, n.revisit_count
		FROM notes n JOIN note_hashtags nh ON nh.note_id = n.id
		WHERE nh.tag = ?
		ORDER BY n.updated_at DESC, n.id`, strings.ToLower(tag))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := s.scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range notes {
		if err := s.loadTags(&notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

// Categories

func (s *SQLiteStore) GetAllCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, path, created_at FROM categories ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Path, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) GetCategoryByPath(path string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow("SELECT id, path, created_at FROM categories WHERE path = ?", path).
		Scan(&c.ID, &c.Path, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) CreateCategory(path string) (*models.Category, error) {
	existing, err := s.GetCategoryByPath(path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	result, err := s.db.Exec(
		"INSERT INTO categories (path, created_at) VALUES (?, ?)", path, nowUTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.getCategoryByID(int(id))
}

func (s *SQLiteStore) getCategoryByID(id int) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow("SELECT id, path, created_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Path, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) DeleteCategory(path string) error {
	result, err := s.db.Exec("DELETE FROM categories WHERE path = ?", path)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("category not found")
	}
	// Detach the path from any notes still carrying it.
	_, err = s.db.Exec("DELETE FROM note_categories WHERE path = ?", path)
	return err
}

func (s *SQLiteStore) CountCategories() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count)
	return count, err
}

// GetHashtagCounts tallies hashtags across all notes, most used first.
func (s *SQLiteStore) GetHashtagCounts() ([]models.HashtagCount, error) {
	rows, err := s.db.Query(`
		SELECT tag, COUNT(DISTINCT note_id) AS n
		FROM note_hashtags GROUP BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.HashtagCount
	for rows.Next() {
		var hc models.HashtagCount
		if err := rows.Scan(&hc.Tag, &hc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Tag < counts[j].Tag
	})
	return counts, nil
}

// Preferences

func (s *SQLiteStore) GetPreference(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetPreference(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}
