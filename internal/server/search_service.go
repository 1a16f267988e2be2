// file: internal/server/search_service.go
// version: 1.2.0
// guid: 4f6a8b0c-2d3e-4f8a-9b1c-3d5e7f9a1b2c

package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/hashtag"
	"github.com/jstrand/notekeeper/internal/metrics"
	"github.com/jstrand/notekeeper/internal/models"
	"github.com/jstrand/notekeeper/internal/search"
)

// searchHit is a single search result enriched with display markup
type searchHit struct {
	Note          models.Note           `json:"note"`
	Score         float64               `json:"score"`
	Terms         []string              `json:"terms"`
	TitleMarked   string                `json:"title_marked"`
	ContentMarked string                `json:"content_marked"`
	CategoryChips []search.TagHighlight `json:"category_chips"`
	HashtagChips  []search.TagHighlight `json:"hashtag_chips"`
}

func toHit(r search.Result) searchHit {
	hit := searchHit{
		Note:          *r.Note,
		Score:         r.Score,
		Terms:         r.Terms,
		TitleMarked: search.Highlight(r.Note.Title, r.Terms),
		// Directive spans stay searchable in raw content but never reach
		// display markup.
		ContentMarked: search.Highlight(hashtag.StripDirectives(r.Note.Content), r.Terms),
	}
	for _, c := range r.Note.Categories {
		hit.CategoryChips = append(hit.CategoryChips, search.HighlightTag(c, r.Terms))
	}
	for _, h := range r.Note.Hashtags {
		hit.HashtagChips = append(hit.HashtagChips, search.HighlightTag(h, r.Terms))
	}
	return hit
}

// searchNotes handles GET /api/v1/search
//
// Query parameters:
//
//	q        — the query string (required)
//	limit    — result cap (default from config)
//	category — exact category path pre-filter
//	recent   — true restricts to notes created in the last 30 days
//	in       — comma-separated fields eligible for matching
//	           (title,content,categories,hashtags; default all)
//	fallback — true switches to the strict pass with fuzzy fallback
func (s *Server) searchNotes(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		RespondWithValidationError(c, "q", "query must not be empty")
		return
	}

	notes, err := store.GetAllNotes(0, 0)
	if err != nil {
		RespondWithInternalError(c, "failed to load notes: "+err.Error())
		return
	}

	limit := ParseQueryInt(c, "limit", config.AppConfig.SearchLimit)
	start := time.Now()

	var results []search.Result
	mode := "ranked"
	if ParseQueryBool(c, "fallback", false) {
		mode = "strict"
		var fuzzy bool
		results, fuzzy = search.PerformSearchWithMode(notes, query)
		if fuzzy {
			mode = "fuzzy"
			metrics.IncFuzzyFallback()
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
	} else {
		opts := search.DefaultOptions()
		opts.FilterByCategory = c.Query("category")
		opts.OnlyRecentNotes = ParseQueryBool(c, "recent", false)
		opts.Limit = limit
		applyFieldSelection(&opts, c.Query("in"))
		results = search.Search(notes, query, opts)
	}

	metrics.IncSearch(mode)
	metrics.ObserveSearchDuration(mode, time.Since(start))

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, toHit(r))
	}
	c.JSON(200, gin.H{
		"query":   query,
		"mode":    mode,
		"count":   len(hits),
		"results": hits,
	})
}

// applyFieldSelection narrows the enabled match fields from the "in" query
// parameter. Unknown names are ignored; an empty value keeps all fields.
func applyFieldSelection(opts *search.Options, in string) {
	if strings.TrimSpace(in) == "" {
		return
	}
	opts.SearchInTitle = false
	opts.SearchInContent = false
	opts.SearchInCategories = false
	opts.SearchInHashtags = false
	for _, field := range strings.Split(in, ",") {
		switch strings.TrimSpace(strings.ToLower(field)) {
		case "title":
			opts.SearchInTitle = true
		case "content":
			opts.SearchInContent = true
		case "categories":
			opts.SearchInCategories = true
		case "hashtags":
			opts.SearchInHashtags = true
		}
	}
}
