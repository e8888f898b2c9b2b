package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bruecksen/publications/internal/scheduler"
)

type BackfillController struct {
	scheduler *scheduler.CitekeyBackfillScheduler
}

func NewBackfillController(s *scheduler.CitekeyBackfillScheduler) *BackfillController {
	return &BackfillController{scheduler: s}
}

// RunBackfill assigns citation keys to publications missing one,
// synchronously, and reports how many were assigned.
func (c *BackfillController) RunBackfill(ctx *gin.Context) {
	assigned, err := c.scheduler.Backfill()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"assigned": assigned,
	})
}
