// file: internal/models/note.go
// version: 1.3.0
// guid: 4f8a1b2c-9d0e-4f3a-8b5c-6d7e8f9a0b1c

package models

import "time"

// Note represents a single note with its tagging metadata
type Note struct {
	ID         string   `json:"id"` // ULID format
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"` // hierarchical paths, segments separated by "/"
	Hashtags   []string `json:"hashtags"`   // bare tags, no leading "#"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Revisit tracking
	LastRevisitedAt *time.Time `json:"last_revisited_at,omitempty"`
	RevisitCount    int        `json:"revisit_count"`
}

// HasCategory reports whether the note carries the exact category path.
func (n *Note) HasCategory(path string) bool {
	for _, c := range n.Categories {
		if c == path {
			return true
		}
	}
	return false
}

// Category represents a hierarchical category path
type Category struct {
	ID        int       `json:"id"`
	Path      string    `json:"path"` // e.g. "home/groceries"
	CreatedAt time.Time `json:"created_at"`
}

// HashtagCount pairs a hashtag with the number of notes carrying it
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NoteListRequest represents pagination and filtering for the note list
type NoteListRequest struct {
	Page     int    `json:"page" form:"page"`
	Limit    int    `json:"limit" form:"limit"`
	Category string `json:"category" form:"category"`
	Hashtag  string `json:"hashtag" form:"hashtag"`
	SortBy   string `json:"sort_by" form:"sort_by"`
	SortDir  string `json:"sort_dir" form:"sort_dir"`
}

// NoteListResponse represents a paginated note list response
type NoteListResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}

// RevisitItem is a note that is due for revisiting, with scheduling context
type RevisitItem struct {
	Note    Note      `json:"note"`
	DueAt   time.Time `json:"due_at"`
	Overdue bool      `json:"overdue"`
}

// SystemStatus represents current system status
type SystemStatus struct {
	Version         string `json:"version"`
	Uptime          string `json:"uptime"`
	DatabasePath    string `json:"database_path"`
	DatabaseType    string `json:"database_type"`
	TotalNotes      int    `json:"total_notes"`
	TotalCategories int    `json:"total_categories"`
	TotalHashtags   int    `json:"total_hashtags"`
	RevisitDue      int    `json:"revisit_due"`
}
