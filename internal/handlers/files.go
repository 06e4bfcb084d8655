package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/supabase"
)

type FilesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewFilesHandler(dbClient *supabase.DatabaseClient) *FilesHandler {
	return &FilesHandler{dbClient: dbClient}
}

// ListFiles godoc
// @Summary     List files attached to a project
// @Description Returns the project's file records, newest first.
// @Tags        files
// @Produce     json
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.FileListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/files [get]
func (h *FilesHandler) ListFiles(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	files, err := h.dbClient.ListProjectFiles(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list files",
			Message: err.Error(),
		})
		return
	}

	resp := models.FileListResponse{Files: make([]models.FileResponse, len(files))}
	for i, f := range files {
		resp.Files[i] = models.FileResponse{
			ID:         f.ID.String(),
			FileName:   f.FileName,
			FileURL:    f.FileURL,
			FileType:   f.FileType,
			UploadedBy: f.UploadedBy,
			CreatedAt:  f.CreatedAt,
		}
		if f.FileSize.Valid {
			resp.Files[i].FileSize = f.FileSize.Int64
		}
	}

	c.JSON(http.StatusOK, resp)
}
