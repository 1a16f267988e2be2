// file: internal/server/server.go
// version: 1.3.0
// guid: 2d4e6f8a-0b1c-4d5e-7f9a-1b3c5d7e9f0a

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jstrand/notekeeper/internal/cache"
	"github.com/jstrand/notekeeper/internal/config"
	"github.com/jstrand/notekeeper/internal/database"
	"github.com/jstrand/notekeeper/internal/metrics"
	"github.com/jstrand/notekeeper/internal/models"
	"github.com/jstrand/notekeeper/internal/revisit"
	"github.com/jstrand/notekeeper/internal/server/middleware"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

var startTime = time.Now()

// Server wraps the gin router and HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine

	// Short-lived caches for list-heavy read endpoints. Mutating handlers
	// call invalidateCaches.
	hashtagCache *cache.Cache[[]models.HashtagCount]
	statusCache  *cache.Cache[models.SystemStatus]
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance
func NewServer() *Server {
	router := gin.Default()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.NewIPRateLimiter(600, 60).Middleware())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:       router,
		hashtagCache: cache.New[[]models.HashtagCount](30 * time.Second),
		statusCache:  cache.New[models.SystemStatus](10 * time.Second),
	}

	server.setupRoutes()

	return server
}

// Router exposes the underlying gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// setupRoutes registers all API routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		// Notes
		v1.GET("/notes", s.listNotes)
		v1.POST("/notes", s.createNote)
		v1.GET("/notes/count", s.countNotes)
		v1.GET("/notes/:id", s.getNote)
		v1.PUT("/notes/:id", s.updateNote)
		v1.DELETE("/notes/:id", s.deleteNote)

		// Search
		v1.GET("/search", s.searchNotes)

		// Categories
		v1.GET("/categories", s.listCategories)
		v1.POST("/categories", s.createCategory)
		v1.GET("/categories/suggest", s.suggestCategories)
		v1.DELETE("/categories/*path", s.deleteCategory)

		// Hashtags
		v1.GET("/hashtags", s.listHashtags)
		v1.GET("/hashtags/:tag/notes", s.notesByHashtag)

		// Revisit surface
		v1.GET("/revisit", s.listRevisitDue)
		v1.POST("/revisit/:id/done", s.markRevisited)
		v1.GET("/revisit/intervals", s.getRevisitIntervals)
		v1.PUT("/revisit/intervals", s.setRevisitIntervals)

		// Backups and export/import
		v1.POST("/backups", s.createBackup)
		v1.GET("/backups", s.listBackups)
		v1.POST("/backups/:filename/restore", s.restoreBackup)
		v1.DELETE("/backups/:filename", s.deleteBackup)
		v1.GET("/export", s.exportNotes)
		v1.POST("/import", s.importNotes)

		// System
		v1.GET("/status", s.systemStatus)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// invalidateCaches drops derived read caches after a mutation
func (s *Server) invalidateCaches() {
	s.hashtagCache.InvalidateAll()
	s.statusCache.InvalidateAll()
}

func (s *Server) healthCheck(c *gin.Context) {
	status := "healthy"
	var noteCount int
	if database.GlobalStore == nil {
		status = "degraded"
	} else if count, err := database.GlobalStore.CountNotes(); err != nil {
		status = "degraded"
		log.Printf("[WARN] Health check database error: %v", err)
	} else {
		noteCount = count
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"version": Version,
		"notes":   noteCount,
	})
}

func (s *Server) systemStatus(c *gin.Context) {
	if database.GlobalStore == nil {
		RespondWithInternalError(c, "database not initialized")
		return
	}

	status, err := s.statusCache.GetOrCompute("status", func() (models.SystemStatus, error) {
		store := database.GlobalStore

		noteCount, err := store.CountNotes()
		if err != nil {
			return models.SystemStatus{}, err
		}
		categoryCount, err := store.CountCategories()
		if err != nil {
			return models.SystemStatus{}, err
		}
		hashtagCounts, err := store.GetHashtagCounts()
		if err != nil {
			return models.SystemStatus{}, err
		}
		due, err := revisit.Due(store, time.Now())
		if err != nil {
			return models.SystemStatus{}, err
		}

		metrics.SetNotes(noteCount)
		metrics.SetCategories(categoryCount)

		return models.SystemStatus{
			Version:         Version,
			Uptime:          time.Since(startTime).Round(time.Second).String(),
			DatabasePath:    config.AppConfig.DatabasePath,
			DatabaseType:    config.AppConfig.DatabaseType,
			TotalNotes:      noteCount,
			TotalCategories: categoryCount,
			TotalHashtags:   len(hashtagCounts),
			RevisitDue:      len(due),
		}, nil
	})
	if err != nil {
		RespondWithInternalError(c, fmt.Sprintf("failed to gather status: %v", err))
		return
	}
	RespondWithOK(c, status)
}
