// file: internal/server/category_service.go
// version: 1.0.0
// guid: 5a7b9c1d-3e4f-4a9b-0c2d-4e6f8a0b2c3d

package server

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
	"github.com/jstrand/notekeeper/internal/search"
)

func (s *Server) listCategories(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	categories, err := store.GetAllCategories()
	if err != nil {
		RespondWithInternalError(c, "failed to list categories: "+err.Error())
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	RespondWithOK(c, categories)
}

type categoryRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) createCategory(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	var req categoryRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}

	path := normalizeCategoryPath(req.Path)
	if path == "" {
		RespondWithValidationError(c, "path", "category path must not be empty")
		return
	}

	category, err := store.CreateCategory(path)
	if err != nil {
		RespondWithInternalError(c, "failed to create category: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithCreated(c, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	// Wildcard params keep their leading slash
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		RespondWithValidationError(c, "path", "category path must not be empty")
		return
	}

	existing, err := store.GetCategoryByPath(path)
	if err != nil {
		RespondWithInternalError(c, "failed to load category: "+err.Error())
		return
	}
	if existing == nil {
		RespondWithNotFound(c, "category", path)
		return
	}

	if err := store.DeleteCategory(path); err != nil {
		RespondWithInternalError(c, "failed to delete category: "+err.Error())
		return
	}

	s.invalidateCaches()
	RespondWithNoContent(c)
}

// suggestCategories handles GET /api/v1/categories/suggest?q=...
// Fuzzy-matches the query against known category paths for typeahead.
func (s *Server) suggestCategories(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	query := search.Normalize(c.Query("q"))
	if query == "" {
		RespondWithValidationError(c, "q", "query must not be empty")
		return
	}
	limit := ParseQueryInt(c, "limit", 10)

	categories, err := store.GetAllCategories()
	if err != nil {
		RespondWithInternalError(c, "failed to list categories: "+err.Error())
		return
	}

	paths := make([]string, len(categories))
	for i, cat := range categories {
		paths[i] = cat.Path
	}

	ranks := fuzzy.RankFindNormalizedFold(query, paths)
	sort.Sort(ranks)

	suggestions := make([]string, 0, len(ranks))
	for _, r := range ranks {
		suggestions = append(suggestions, r.Target)
		if len(suggestions) >= limit {
			break
		}
	}
	RespondWithOK(c, gin.H{"query": query, "suggestions": suggestions})
}

// normalizeCategoryPath trims whitespace and stray slashes around a path and
// collapses empty segments.
func normalizeCategoryPath(path string) string {
	segments := strings.Split(strings.TrimSpace(path), "/")
	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}
