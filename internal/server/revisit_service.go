// file: internal/server/revisit_service.go
// version: 1.0.0
// guid: 7c9d1e3f-5a6b-4c1d-2e4f-6a8b0c2d4e5f

package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
	"github.com/jstrand/notekeeper/internal/revisit"
)

// listRevisitDue handles GET /api/v1/revisit
func (s *Server) listRevisitDue(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	items, err := revisit.Due(store, time.Now())
	if err != nil {
		RespondWithInternalError(c, "failed to compute revisit list: "+err.Error())
		return
	}
	if items == nil {
		items = []models.RevisitItem{}
	}
	RespondWithList(c, items, len(items), 0, 0)
}

// markRevisited handles POST /api/v1/revisit/:id/done
func (s *Server) markRevisited(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	id := c.Param("id")
	note, err := revisit.MarkRevisited(store, id, time.Now())
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			RespondWithNotFound(c, "note", id)
			return
		}
		RespondWithInternalError(c, "failed to mark revisited: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithOK(c, note)
}

// getRevisitIntervals handles GET /api/v1/revisit/intervals
func (s *Server) getRevisitIntervals(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}
	RespondWithOK(c, gin.H{"intervals": revisit.Intervals(store)})
}

type intervalsRequest struct {
	Intervals []int `json:"intervals" binding:"required"`
}

// setRevisitIntervals handles PUT /api/v1/revisit/intervals
func (s *Server) setRevisitIntervals(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	var req intervalsRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}
	if err := revisit.SetIntervals(store, req.Intervals); err != nil {
		RespondWithValidationError(c, "intervals", err.Error())
		return
	}
	RespondWithOK(c, gin.H{"intervals": req.Intervals})
}
