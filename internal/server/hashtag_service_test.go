// file: internal/server/hashtag_service_test.go
// version: 1.0.0
// guid: 4d6e8f0a-2b3c-4d8e-9f1a-3b5c7d9e1f2a

package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrand/notekeeper/internal/models"
)

func TestListHashtags(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "a", Hashtags: []string{"urgent", "work"}})
	require.NoError(t, err)
	_, err = store.CreateNote(&models.Note{Title: "b", Hashtags: []string{"urgent"}})
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/hashtags", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var counts []models.HashtagCount
	decodeData(t, resp, &counts)
	require.Len(t, counts, 2)
	assert.Equal(t, models.HashtagCount{Tag: "urgent", Count: 2}, counts[0])
}

func TestListHashtags_CacheInvalidatedOnMutation(t *testing.T) {
	s, _ := setupTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/hashtags", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Creating a note must bust the cached (empty) tally
	resp = doJSON(t, s, http.MethodPost, "/api/v1/notes", map[string]any{
		"content": "hello #fresh",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/hashtags", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var counts []models.HashtagCount
	decodeData(t, resp, &counts)
	require.Len(t, counts, 1)
	assert.Equal(t, "fresh", counts[0].Tag)
}

func TestNotesByHashtag(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "a", Hashtags: []string{"urgent"}})
	require.NoError(t, err)
	_, err = store.CreateNote(&models.Note{Title: "b"})
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/hashtags/urgent/notes", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listing struct {
		Items []models.Note `json:"items"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "a", listing.Items[0].Title)

	// Leading # is tolerated
	resp = doJSON(t, s, http.MethodGet, "/api/v1/hashtags/%23urgent/notes", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
}
