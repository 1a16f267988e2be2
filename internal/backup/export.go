// file: internal/backup/export.go
// version: 1.0.0
// guid: 2f4a6b8c-0d1e-4f5a-7b9c-1d3e5f7a9b0c

package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/hashtag"
	"github.com/jstrand/notekeeper/internal/models"
)

// Dump is the JSON envelope for a notes export
type Dump struct {
	ExportedAt time.Time     `json:"exported_at"`
	NoteCount  int           `json:"note_count"`
	Notes      []models.Note `json:"notes"`
}

// ExportNotes writes all notes from the store as a JSON dump.
func ExportNotes(store database.Store, w *os.File) (int, error) {
	notes, err := store.GetAllNotes(0, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to list notes for export: %w", err)
	}

	dump := Dump{
		ExportedAt: time.Now().UTC(),
		NoteCount:  len(notes),
		Notes:      notes,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dump); err != nil {
		return 0, fmt.Errorf("failed to encode export: %w", err)
	}
	return len(notes), nil
}

// ExportNotesToFile exports all notes into path, creating parent directories.
func ExportNotesToFile(store database.Store, path string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return ExportNotes(store, f)
}

// ParseNotesFile reads notes from a .json or .md file. JSON files may hold a
// full dump envelope, a bare note array, or a single note object. Markdown
// files become one note: first heading as title, body as content, hashtags
// extracted from the text.
func ParseNotesFile(path string) ([]models.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSONNotes(data)
	case ".md", ".markdown", ".txt":
		note := parseMarkdownNote(path, string(data))
		return []models.Note{note}, nil
	default:
		return nil, fmt.Errorf("unsupported note file type: %s", path)
	}
}

func parseJSONNotes(data []byte) ([]models.Note, error) {
	var dump Dump
	if err := json.Unmarshal(data, &dump); err == nil && len(dump.Notes) > 0 {
		return dump.Notes, nil
	}

	var notes []models.Note
	if err := json.Unmarshal(data, &notes); err == nil && len(notes) > 0 {
		return notes, nil
	}

	var note models.Note
	if err := json.Unmarshal(data, &note); err == nil && (note.Title != "" || note.Content != "") {
		return []models.Note{note}, nil
	}
	return nil, fmt.Errorf("no notes found in JSON payload")
}

func parseMarkdownNote(path, content string) models.Note {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	body := content

	// A leading "# Heading" becomes the title
	trimmed := strings.TrimLeft(content, "\n")
	if strings.HasPrefix(trimmed, "# ") {
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			title = strings.TrimSpace(trimmed[2:idx])
			body = strings.TrimLeft(trimmed[idx+1:], "\n")
		} else {
			title = strings.TrimSpace(trimmed[2:])
			body = ""
		}
	}

	return models.Note{
		Title:    title,
		Content:  body,
		Hashtags: hashtag.Extract(body),
	}
}

// ImportNotes writes parsed notes into the store. Existing IDs are updated
// in place so re-importing a dump is idempotent; everything else is created.
func ImportNotes(store database.Store, notes []models.Note) (created, updated int, err error) {
	for i := range notes {
		note := notes[i]
		if len(note.Hashtags) == 0 {
			note.Hashtags = hashtag.Extract(note.Content)
		}

		if note.ID != "" {
			existing, err := store.GetNoteByID(note.ID)
			if err != nil {
				return created, updated, err
			}
			if existing != nil {
				if _, err := store.UpdateNote(note.ID, &note); err != nil {
					return created, updated, err
				}
				updated++
				continue
			}
		}
		if _, err := store.CreateNote(&note); err != nil {
			return created, updated, err
		}
		created++
	}

	// Make sure every referenced category path exists
	seen := make(map[string]bool)
	for i := range notes {
		for _, path := range notes[i].Categories {
			if seen[path] {
				continue
			}
			seen[path] = true
			if _, err := store.CreateCategory(path); err != nil {
				return created, updated, fmt.Errorf("failed to create category %s: %w", path, err)
			}
		}
	}
	return created, updated, nil
}

// ImportFile parses and imports a single note file.
func ImportFile(store database.Store, path string) (created, updated int, err error) {
	notes, err := ParseNotesFile(path)
	if err != nil {
		return 0, 0, err
	}
	return ImportNotes(store, notes)
}
