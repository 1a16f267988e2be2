// file: internal/server/backup_service_test.go
// version: 1.0.0
// guid: 3c5d7e9f-1a2b-4c7d-8e0f-2a4b6c8d0e1f

package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrand/notekeeper/internal/backup"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/models"
)

// setupBackupServer uses a real SQLite store so there is an actual database
// file to archive and restore.
func setupBackupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	prev := config.AppConfig
	config.AppConfig = config.Config{
		DataDir:      dir,
		DatabasePath: filepath.Join(dir, "notes.db"),
		DatabaseType: "sqlite",
		BackupDir:    filepath.Join(dir, "backups"),
		MaxBackups:   5,
		SearchLimit:  50,
	}
	require.NoError(t, database.InitializeStore("sqlite", config.AppConfig.DatabasePath))
	t.Cleanup(func() {
		database.CloseStore()
		config.AppConfig = prev
	})

	return NewServer()
}

func TestBackupLifecycleWithRestore(t *testing.T) {
	s := setupBackupServer(t)

	note, err := database.GlobalStore.CreateNote(&models.Note{Title: "keep me"})
	require.NoError(t, err)

	// Create a backup
	resp := doJSON(t, s, http.MethodPost, "/api/v1/backups", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var info backup.Info
	decodeData(t, resp, &info)
	assert.Equal(t, "sqlite", info.DatabaseType)

	// List it
	resp = doJSON(t, s, http.MethodGet, "/api/v1/backups", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listing struct {
		Items []backup.Info `json:"items"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	require.Equal(t, 1, listing.Count)

	// Lose the note, then restore the archive
	require.NoError(t, database.GlobalStore.DeleteNote(note.ID))

	resp = doJSON(t, s, http.MethodPost, "/api/v1/backups/"+info.Filename+"/restore", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	restored, err := database.GlobalStore.GetNoteByID(note.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "keep me", restored.Title)

	// Delete the backup
	resp = doJSON(t, s, http.MethodDelete, "/api/v1/backups/"+info.Filename, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, s, http.MethodDelete, "/api/v1/backups/"+info.Filename, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRestoreBackup_InvalidFilename(t *testing.T) {
	s := setupBackupServer(t)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/backups/..%2Fescape/restore", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, s, http.MethodDelete, "/api/v1/backups/missing.tar.gz", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExportImportEndpoints(t *testing.T) {
	s, store := setupTestServer(t)
	_, err := store.CreateNote(&models.Note{Title: "first", Content: "one #tag"})
	require.NoError(t, err)

	resp := doJSON(t, s, http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "notes-export.json")

	var dump backup.Dump
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dump))
	require.Equal(t, 1, dump.NoteCount)

	// Import into a fresh store
	fresh := database.NewMockStore()
	database.GlobalStore = fresh

	resp = doJSON(t, s, http.MethodPost, "/api/v1/import", dump)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"created":1`)

	count, err := fresh.CountNotes()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
