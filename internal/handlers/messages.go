package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"webstarter-backend/internal/middleware"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/supabase"
)

type MessagesHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewMessagesHandler(dbClient *supabase.DatabaseClient) *MessagesHandler {
	return &MessagesHandler{dbClient: dbClient}
}

// ListMessages godoc
// @Summary     List messages on a project
// @Description Returns the project's message thread, oldest first.
// @Tags        messages
// @Produce     json
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.MessageListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/messages [get]
func (h *MessagesHandler) ListMessages(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	messages, err := h.dbClient.ListMessages(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list messages",
			Message: err.Error(),
		})
		return
	}

	resp := models.MessageListResponse{Messages: make([]models.MessageResponse, len(messages))}
	for i, m := range messages {
		resp.Messages[i] = toMessageResponse(&m)
	}

	c.JSON(http.StatusOK, resp)
}

// PostClientMessage godoc
// @Summary     Post a client message on a project
// @Tags        messages
// @Accept      json
// @Produce     json
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.MessageRequest true "Message"
// @Success     201 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects/{project_id}/messages [post]
func (h *MessagesHandler) PostClientMessage(c *gin.Context) {
	h.postMessage(c, models.SenderClient, "")
}

// PostAdminMessage godoc
// @Summary     Post an admin reply on a project
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.MessageRequest true "Message"
// @Success     201 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/projects/{project_id}/messages [post]
func (h *MessagesHandler) PostAdminMessage(c *gin.Context) {
	// The sender is whoever the token says, not whatever the body claims.
	h.postMessage(c, models.SenderAdmin, c.GetString(middleware.UserEmailKey))
}

func (h *MessagesHandler) postMessage(c *gin.Context, senderType, senderEmail string) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project id"})
		return
	}

	var req models.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "message must not be empty"})
		return
	}

	if senderEmail == "" {
		senderEmail = req.SenderEmail
	}

	// Confirm the project exists so a typo'd ID fails loudly instead of
	// creating an orphaned thread.
	if _, err := h.dbClient.GetProject(projectID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "project not found"})
		return
	}

	message, err := h.dbClient.CreateMessage(projectID, senderType, senderEmail, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save message",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, toMessageResponse(message))
}

func toMessageResponse(m *models.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:          m.ID.String(),
		SenderType:  m.SenderType,
		SenderEmail: m.SenderEmail,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
	}
}
