package http

import (
	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/scheduler"
	"github.com/bruecksen/publications/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Database      *database.Database
	ImportService *services.ImportService

	// Citekey backfill (optional)
	BackfillScheduler *scheduler.CitekeyBackfillScheduler

	// Application info
	Version string
}
