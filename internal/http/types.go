package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/types"
)

type TypesController struct {
	db *database.Database
}

func NewTypesController(db *database.Database) *TypesController {
	return &TypesController{db: db}
}

func (c *TypesController) GetAllTypes(ctx *gin.Context) {
	repo := types.NewRepository(c.db.DB)
	all, err := repo.GetAll()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"types": all,
		"count": len(all),
	})
}
