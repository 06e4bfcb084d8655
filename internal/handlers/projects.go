package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/services"
	"webstarter-backend/internal/supabase"
)

type ProjectsHandler struct {
	dbClient      *supabase.DatabaseClient
	statusService *services.StatusService
}

func NewProjectsHandler(dbClient *supabase.DatabaseClient, statusService *services.StatusService) *ProjectsHandler {
	return &ProjectsHandler{
		dbClient:      dbClient,
		statusService: statusService,
	}
}

// ListProjects godoc
// @Summary     List project requests
// @Description Lists projects newest first, optionally filtered by status.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       status query string false "Filter by status"
// @Success     200 {object} models.ProjectListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	status := c.Query("status")
	if status != "" && !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status filter"})
		return
	}

	projects, err := h.dbClient.ListProjects(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list projects",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = models.ProjectSummary{
			ID:          p.ID.String(),
			ClientName:  p.ClientName,
			ProjectType: p.ProjectType,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: summaries})
}

// GetProject godoc
// @Summary     Get one project request
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	project, err := h.dbClient.GetProject(projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "project not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, project.ToResponse())
}

// UpdateStatus godoc
// @Summary     Change a project's status
// @Description Persists the new status, then attempts the client notification. A notification failure is reported as a warning beside the persisted change, never as a failure of the change itself.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.StatusUpdateRequest true "New status"
// @Success     200 {object} models.StatusUpdateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /admin/projects/{project_id}/status [patch]
func (h *ProjectsHandler) UpdateStatus(c *gin.Context) {
	if h.statusService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status: " + req.Status})
		return
	}

	result, err := h.statusService.Change(c.Request.Context(), projectID, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
			return
		}
		// Admin-facing: the error is shown verbatim
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusUpdateResponse{
		Project: result.Project.ToResponse(),
		Notification: models.NotificationStatus{
			Attempted: result.Notification.Attempted,
			Sent:      result.Notification.Sent,
			Warning:   result.Notification.Warning(),
		},
	})
}
