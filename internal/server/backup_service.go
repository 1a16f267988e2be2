// file: internal/server/backup_service.go
// version: 1.0.0
// guid: 8d0e2f4a-6b7c-4d2e-3f5a-7b9c1d3e5f6a

package server

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstrand/notekeeper/internal/backup"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/metrics"
	"github.com/jstrand/notekeeper/internal/models"
)

func backupConfig() backup.Config {
	cfg := backup.DefaultConfig()
	cfg.BackupDir = config.AppConfig.BackupDir
	if config.AppConfig.MaxBackups > 0 {
		cfg.MaxBackups = config.AppConfig.MaxBackups
	}
	return cfg
}

// createBackup handles POST /api/v1/backups
func (s *Server) createBackup(c *gin.Context) {
	if database.GlobalStore == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	info, err := backup.Create(config.AppConfig.DatabasePath, config.AppConfig.DatabaseType, backupConfig())
	if err != nil {
		RespondWithInternalError(c, "failed to create backup: "+err.Error())
		return
	}
	RespondWithCreated(c, info)
}

// listBackups handles GET /api/v1/backups
func (s *Server) listBackups(c *gin.Context) {
	backups, err := backup.List(config.AppConfig.BackupDir)
	if err != nil {
		RespondWithInternalError(c, "failed to list backups: "+err.Error())
		return
	}
	if backups == nil {
		backups = []backup.Info{}
	}
	RespondWithList(c, backups, len(backups), 0, 0)
}

// resolveBackup validates a filename parameter and resolves it inside the
// backup directory. Returns "" after responding when invalid.
func resolveBackup(c *gin.Context) string {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		RespondWithValidationError(c, "filename", "invalid backup filename")
		return ""
	}
	path := filepath.Join(config.AppConfig.BackupDir, filename)
	if _, err := os.Stat(path); err != nil {
		RespondWithNotFound(c, "backup", filename)
		return ""
	}
	return path
}

// restoreBackup handles POST /api/v1/backups/:filename/restore. The store is
// closed for the duration of the extraction and reopened afterwards.
func (s *Server) restoreBackup(c *gin.Context) {
	path := resolveBackup(c)
	if path == "" {
		return
	}

	if err := database.CloseStore(); err != nil {
		RespondWithInternalError(c, "failed to close database: "+err.Error())
		return
	}

	targetDir := filepath.Dir(config.AppConfig.DatabasePath)
	restoreErr := backup.Restore(path, targetDir)

	if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath); err != nil {
		log.Printf("[ERROR] Failed to reopen database after restore: %v", err)
		RespondWithInternalError(c, "failed to reopen database: "+err.Error())
		return
	}
	if restoreErr != nil {
		RespondWithInternalError(c, "failed to restore backup: "+restoreErr.Error())
		return
	}

	s.invalidateCaches()
	RespondWithOK(c, gin.H{"restored": filepath.Base(path), "restored_at": time.Now().UTC()})
}

// deleteBackup handles DELETE /api/v1/backups/:filename
func (s *Server) deleteBackup(c *gin.Context) {
	path := resolveBackup(c)
	if path == "" {
		return
	}
	if err := backup.Delete(path); err != nil {
		RespondWithInternalError(c, "failed to delete backup: "+err.Error())
		return
	}
	RespondWithNoContent(c)
}

// exportNotes handles GET /api/v1/export — streams a JSON dump of all notes.
func (s *Server) exportNotes(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	notes, err := store.GetAllNotes(0, 0)
	if err != nil {
		RespondWithInternalError(c, "failed to export notes: "+err.Error())
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	c.Header("Content-Disposition", `attachment; filename="notes-export.json"`)
	c.JSON(http.StatusOK, backup.Dump{
		ExportedAt: time.Now().UTC(),
		NoteCount:  len(notes),
		Notes:      notes,
	})
}

type importRequest struct {
	Notes []models.Note `json:"notes" binding:"required"`
}

// importNotes handles POST /api/v1/import — accepts a dump envelope (or at
// least its notes array) and merges it into the store.
func (s *Server) importNotes(c *gin.Context) {
	store := database.GlobalStore
	if store == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	var req importRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}

	created, updated, err := backup.ImportNotes(store, req.Notes)
	if err != nil {
		RespondWithInternalError(c, "failed to import notes: "+err.Error())
		return
	}

	metrics.IncNotesImported("api", created)
	s.invalidateCaches()
	RespondWithOK(c, gin.H{"created": created, "updated": updated})
}
