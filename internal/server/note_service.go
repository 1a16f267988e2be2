// file: internal/server/note_service.go
// version: 1.1.0
// guid: 3e5f7a9b-1c2d-4e6f-8a0b-2c4d6e8f0a1b

package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/hashtag"
	"github.com/jstrand/notekeeper/internal/models"
)

// noteRequest is the payload for creating or updating a note
type noteRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
	Hashtags   []string `json:"hashtags"`
}

// toNote converts the request into a model, extracting hashtags from the
// content when the client didn't supply any.
func (r *noteRequest) toNote() *models.Note {
	note := &models.Note{
		Title:      strings.TrimSpace(r.Title),
		Content:    r.Content,
		Categories: r.Categories,
		Hashtags:   r.Hashtags,
	}
	if len(note.Hashtags) == 0 {
		note.Hashtags = hashtag.Extract(note.Content)
	} else {
		for i, tag := range note.Hashtags {
			note.Hashtags[i] = strings.ToLower(strings.TrimPrefix(tag, "#"))
		}
	}
	return note
}

// ensureCategories materializes category rows for every path on the note
func ensureCategories(store database.Store, note *models.Note) error {
	for _, path := range note.Categories {
		if _, err := store.CreateCategory(path); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) listNotes(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	limit := ParseQueryInt(c, "limit", 50)
	offset := ParseQueryInt(c, "offset", 0)
	category := c.Query("category")
	tag := c.Query("hashtag")

	var notes []models.Note
	var err error
	switch {
	case category != "":
		notes, err = store.GetNotesByCategory(category)
	case tag != "":
		notes, err = store.GetNotesByHashtag(tag)
	default:
		notes, err = store.GetAllNotes(limit, offset)
	}
	if err != nil {
		RespondWithInternalError(c, "failed to list notes: "+err.Error())
		return
	}

	// Filtered listings page in memory; the unfiltered path pages in the store
	if category != "" || tag != "" {
		if offset > 0 {
			if offset >= len(notes) {
				notes = nil
			} else {
				notes = notes[offset:]
			}
		}
		if limit > 0 && len(notes) > limit {
			notes = notes[:limit]
		}
	}

	if notes == nil {
		notes = []models.Note{}
	}
	RespondWithList(c, notes, len(notes), limit, offset)
}

func (s *Server) countNotes(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}
	count, err := store.CountNotes()
	if err != nil {
		RespondWithInternalError(c, "failed to count notes: "+err.Error())
		return
	}
	RespondWithOK(c, gin.H{"count": count})
}

func (s *Server) getNote(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	id := c.Param("id")
	note, err := store.GetNoteByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load note: "+err.Error())
		return
	}
	if note == nil {
		RespondWithNotFound(c, "note", id)
		return
	}
	RespondWithOK(c, note)
}

func (s *Server) createNote(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	var req noteRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	if req.Title == "" && strings.TrimSpace(req.Content) == "" {
		RespondWithValidationError(c, "content", "a note needs a title or content")
		return
	}

	note := req.toNote()
	if err := ensureCategories(store, note); err != nil {
		RespondWithInternalError(c, "failed to create categories: "+err.Error())
		return
	}

	created, err := store.CreateNote(note)
	if err != nil {
		RespondWithInternalError(c, "failed to create note: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithCreated(c, created)
}

func (s *Server) updateNote(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	id := c.Param("id")
	existing, err := store.GetNoteByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load note: "+err.Error())
		return
	}
	if existing == nil {
		RespondWithNotFound(c, "note", id)
		return
	}

	var req noteRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}

	note := req.toNote()
	note.LastRevisitedAt = existing.LastRevisitedAt
	note.RevisitCount = existing.RevisitCount
	if err := ensureCategories(store, note); err != nil {
		RespondWithInternalError(c, "failed to create categories: "+err.Error())
		return
	}

	updated, err := store.UpdateNote(id, note)
	if err != nil {
		RespondWithInternalError(c, "failed to update note: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithOK(c, updated)
}

func (s *Server) deleteNote(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	id := c.Param("id")
	existing, err := store.GetNoteByID(id)
	if err != nil {
		RespondWithInternalError(c, "failed to load note: "+err.Error())
		return
	}
	if existing == nil {
		RespondWithNotFound(c, "note", id)
		return
	}

	if err := store.DeleteNote(id); err != nil {
		RespondWithInternalError(c, "failed to delete note: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithNoContent(c)
}
