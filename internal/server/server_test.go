// file: internal/server/server_test.go
// version: 1.1.0
// guid: 9e1f3a5b-7c8d-4e3f-4a6b-8c0d2e4f6a7b

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
)

// setupTestServer wires a fresh server against an in-memory store.
func setupTestServer(t *testing.T) (*Server, *database.MockStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMockStore()
	database.GlobalStore = store
	t.Cleanup(func() { database.GlobalStore = nil })

	return NewServer(), store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router().ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthCheck(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "x"})
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"healthy"`)
	assert.Contains(t, resp.Body.String(), `"notes":1`)
}

func TestHealthCheck_NoDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	database.GlobalStore = nil
	s := NewServer()

	resp := doJSON(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestNoteLifecycle(t *testing.T) {
	s, _ := setupTestServer(t)

	// Create with hashtag auto-extraction
	resp := doJSON(t, s, http.MethodPost, "/api/v1/notes", gin.H{
		"title":      "Shopping",
		"content":    "buy milk #urgent",
		"categories": []string{"home/groceries"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created models.Note
	decodeData(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"urgent"}, created.Hashtags)

	// The category was materialized
	resp = doJSON(t, s, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var categories []models.Category
	decodeData(t, resp, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "home/groceries", categories[0].Path)

	// Read back
	resp = doJSON(t, s, http.MethodGet, "/api/v1/notes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Update
	resp = doJSON(t, s, http.MethodPut, "/api/v1/notes/"+created.ID, gin.H{
		"title":   "Shopping list",
		"content": "buy milk and bread",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	var updated models.Note
	decodeData(t, resp, &updated)
	assert.Equal(t, "Shopping list", updated.Title)

	// Count
	resp = doJSON(t, s, http.MethodGet, "/api/v1/notes/count", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":1`)

	// Delete
	resp = doJSON(t, s, http.MethodDelete, "/api/v1/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/notes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateNote_Validation(t *testing.T) {
	s, _ := setupTestServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/notes", gin.H{"title": "", "content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListNotes_FilterByCategory(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "a", Categories: []string{"work"}})
	require.NoError(t, err)
	_, err = store.CreateNote(&models.Note{Title: "b", Categories: []string{"home"}})
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/notes?category=work", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Items []models.Note `json:"items"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Count)
	assert.Equal(t, "a", envelope.Items[0].Title)
}

func TestUpdateNote_NotFound(t *testing.T) {
	s, _ := setupTestServer(t)
	resp := doJSON(t, s, http.MethodPut, "/api/v1/notes/missing", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSystemStatus(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "x", Hashtags: []string{"a"}})
	require.NoError(t, err)
	_, err = store.CreateCategory("work")
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var status models.SystemStatus
	decodeData(t, resp, &status)
	assert.Equal(t, 1, status.TotalNotes)
	assert.Equal(t, 1, status.TotalCategories)
	assert.Equal(t, 1, status.TotalHashtags)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/notes", nil)
	resp := httptest.NewRecorder()
	s.Router().ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := setupTestServer(t)
	resp := doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "notekeeper_")
}
