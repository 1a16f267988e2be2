// file: internal/server/hashtag_service.go
// version: 1.0.0
// guid: 6b8c0d2e-4f5a-4b0c-1d3e-5f7a9b1c3d4e

package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
)

// listHashtags handles GET /api/v1/hashtags — the tag cloud, cached briefly
// because it scans every note.
func (s *Server) listHashtags(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	counts, err := s.hashtagCache.GetOrCompute("all", func() ([]models.HashtagCount, error) {
		return store.GetHashtagCounts()
	})
	if err != nil {
		RespondWithInternalError(c, "failed to tally hashtags: "+err.Error())
		return
	}
	if counts == nil {
		counts = []models.HashtagCount{}
	}
	RespondWithOK(c, counts)
}

// notesByHashtag handles GET /api/v1/hashtags/:tag/notes
func (s *Server) notesByHashtag(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	tag := strings.TrimPrefix(c.Param("tag"), "#")
	if tag == "" {
		RespondWithValidationError(c, "tag", "hashtag must not be empty")
		return
	}

	notes, err := store.GetNotesByHashtag(tag)
	if err != nil {
		RespondWithInternalError(c, "failed to list notes: "+err.Error())
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	RespondWithList(c, notes, len(notes), 0, 0)
}
