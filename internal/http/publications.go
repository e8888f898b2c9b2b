package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/publications"
)

type PublicationsController struct {
	db *database.Database
}

func NewPublicationsController(db *database.Database) *PublicationsController {
	return &PublicationsController{db: db}
}

func (c *PublicationsController) GetAllPublications(ctx *gin.Context) {
	repo := publications.NewRepository(c.db.DB)
	pubs, err := repo.GetAll()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"publications": pubs,
		"count":        len(pubs),
	})
}

func (c *PublicationsController) SearchPublications(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	repo := publications.NewRepository(c.db.DB)
	pubs, err := repo.Search(query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"publications": pubs,
		"count":        len(pubs),
	})
}

func (c *PublicationsController) GetPublication(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication ID"})
		return
	}

	repo := publications.NewRepository(c.db.DB)
	pub, err := repo.GetByID(uint(id))
	if err == gorm.ErrRecordNotFound {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, pub)
}
