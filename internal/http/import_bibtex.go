package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bruecksen/publications/internal/entities"
	"github.com/bruecksen/publications/internal/services"
)

const (
	maxBibtexFileSize = 10 * 1024 * 1024 // 10 MB
)

type ImportController struct {
	service *services.ImportService
}

func NewImportController(service *services.ImportService) *ImportController {
	return &ImportController{
		service: service,
	}
}

type ImportRequest struct {
	Bibliography string `form:"bibliography" json:"bibliography"`
}

type BibtexImportResult struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	Added        int                     `json:"added"`
	Publications []entities.Publication  `json:"publications,omitempty"`
	Errors       []string                `json:"errors,omitempty"`
}

// Import accepts a bibliography either as an uploaded .bib file
// ("bibliography_file") or as a form/JSON field ("bibliography").
func (c *ImportController) Import(ctx *gin.Context) {
	bibliography, errMsg := readBibliography(ctx)
	if errMsg != "" {
		ctx.JSON(http.StatusBadRequest, &BibtexImportResult{
			Success: false,
			Message: errMsg,
		})
		return
	}

	result, err := c.service.ImportBibtex(bibliography)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, &BibtexImportResult{
			Success: false,
			Message: fmt.Sprintf("Failed to import: %v", err),
		})
		return
	}

	if len(result.Saved) == 0 {
		ctx.JSON(http.StatusBadRequest, &BibtexImportResult{
			Success: false,
			Message: fmt.Sprintf("No publications were added, %d errors occurred", len(result.Errors)),
			Errors:  result.Errors,
		})
		return
	}

	ctx.JSON(http.StatusOK, &BibtexImportResult{
		Success: true,
		Message: fmt.Sprintf("Successfully added %d publications (%d skipped due to errors)",
			len(result.Saved), len(result.Errors)),
		Added:        len(result.Saved),
		Publications: result.Saved,
		Errors:       result.Errors,
	})
}

// readBibliography extracts the BibTeX source from the request. A non-empty
// second return value is the error message for the client.
func readBibliography(ctx *gin.Context) (string, string) {
	file, header, err := ctx.Request.FormFile("bibliography_file")
	if err == nil {
		defer file.Close()
		if header.Size > maxBibtexFileSize {
			return "", fmt.Sprintf("File too large (max %d MB)", maxBibtexFileSize/(1024*1024))
		}
		data, err := io.ReadAll(io.LimitReader(file, maxBibtexFileSize+1))
		if err != nil {
			return "", fmt.Sprintf("Failed to read file: %v", err)
		}
		return string(data), ""
	}

	var req ImportRequest
	if err := ctx.ShouldBind(&req); err != nil || req.Bibliography == "" {
		return "", "No bibliography provided"
	}
	return req.Bibliography, ""
}
