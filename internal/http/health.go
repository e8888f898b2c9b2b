package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/publications"
	"github.com/bruecksen/publications/internal/database/types"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"

			// an empty type table makes every import fail type resolution
			allTypes, err := types.NewRepository(h.db.DB).GetAll()
			if err != nil {
				checks["types"] = "error: " + err.Error()
				status = "unhealthy"
			} else if len(allTypes) == 0 {
				checks["types"] = "not seeded"
				status = "unhealthy"
			} else {
				checks["types"] = fmt.Sprintf("ok (%d)", len(allTypes))
			}

			count, err := publications.NewRepository(h.db.DB).Count()
			if err != nil {
				checks["publications"] = "error: " + err.Error()
				status = "unhealthy"
			} else {
				checks["publications"] = fmt.Sprintf("ok (%d)", count)
			}
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
