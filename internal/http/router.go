package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	importer := NewImportController(cfg.ImportService)
	pubsController := NewPublicationsController(cfg.Database)
	typesController := NewTypesController(cfg.Database)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoint
	router.POST("/api/import/bibtex", importer.Import)

	// Publications API endpoints
	router.GET("/api/publications", pubsController.GetAllPublications)
	router.GET("/api/publications/search", pubsController.SearchPublications)
	router.GET("/api/publications/:id", pubsController.GetPublication)

	// Type table endpoint
	router.GET("/api/types", typesController.GetAllTypes)

	// Citekey backfill endpoint
	if cfg.BackfillScheduler != nil {
		backfillController := NewBackfillController(cfg.BackfillScheduler)
		router.POST("/api/admin/citekeys/backfill", backfillController.RunBackfill)
	}

	return router
}
