package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"webstarter-backend/internal/intake"
	"webstarter-backend/internal/models"
)

type DraftsHandler struct {
	store intake.DraftStore
}

func NewDraftsHandler(store intake.DraftStore) *DraftsHandler {
	return &DraftsHandler{store: store}
}

// Load godoc
// @Summary     Load a form draft
// @Description Returns the saved draft for this browser, or 404 when none exists or it expired.
// @Tags        drafts
// @Produce     json
// @Param       draft_key path string true "Draft key"
// @Success     200 {object} intake.Draft
// @Failure     404 {object} models.ErrorResponse
// @Router      /drafts/{draft_key} [get]
func (h *DraftsHandler) Load(c *gin.Context) {
	draft, err := h.store.Load(c.Request.Context(), c.Param("draft_key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load draft",
			Message: err.Error(),
		})
		return
	}
	if draft == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no draft"})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Save godoc
// @Summary     Save a form draft
// @Tags        drafts
// @Accept      json
// @Produce     json
// @Param       draft_key path string true "Draft key"
// @Success     204
// @Failure     400 {object} models.ErrorResponse
// @Router      /drafts/{draft_key} [put]
func (h *DraftsHandler) Save(c *gin.Context) {
	var draft intake.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid draft payload",
			Message: err.Error(),
		})
		return
	}

	// The save timestamp is authoritative server-side
	draft.SavedAt = time.Now()

	if err := h.store.Save(c.Request.Context(), c.Param("draft_key"), draft); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save draft",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// Clear godoc
// @Summary     Clear a form draft
// @Tags        drafts
// @Param       draft_key path string true "Draft key"
// @Success     204
// @Router      /drafts/{draft_key} [delete]
func (h *DraftsHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context(), c.Param("draft_key")); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to clear draft",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
