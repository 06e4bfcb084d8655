package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"webstarter-backend/internal/intake"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/services"
)

// DraftKeyHeader carries the browser's draft identifier, so the
// server can clear the matching draft once submission succeeds.
const DraftKeyHeader = "X-Draft-Key"

type IntakeHandler struct {
	service       *services.IntakeService
	defaultLocale string
}

func NewIntakeHandler(service *services.IntakeService, defaultLocale string) *IntakeHandler {
	return &IntakeHandler{
		service:       service,
		defaultLocale: defaultLocale,
	}
}

type submissionPayload struct {
	intake.Fields
	SelectedColors []string `json:"selected_colors,omitempty"`
	BudgetRange    string   `json:"budget_range,omitempty"`
	Locale         string   `json:"locale,omitempty"`
}

// Submit godoc
// @Summary     Submit a project request
// @Description Creates a project from the intake form, uploads attachments and sends a confirmation email. Accepts JSON or multipart/form-data.
// @Tags        intake
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Success     201 {object} models.SubmissionResponse
// @Failure     400 {object} models.ValidationErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /requests [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	sub, err := h.parseSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if errs := intake.Validate(sub.Fields, sub.Locale); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: errs,
		})
		return
	}

	receipt, err := h.service.Submit(c.Request.Context(), *sub)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create project",
			Message: err.Error(),
		})
		return
	}

	resp := models.SubmissionResponse{
		ProjectID: receipt.ProjectID,
		Status:    models.StatusNouvelle,
		Notification: models.NotificationStatus{
			Attempted: receipt.Notification.Attempted,
			Sent:      receipt.Notification.Sent,
			Warning:   receipt.Notification.Warning(),
		},
	}
	for _, f := range receipt.Files {
		resp.Files = append(resp.Files, models.FileOutcome{
			FileName: f.Name,
			Uploaded: f.Uploaded,
			FileURL:  f.URL,
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *IntakeHandler) parseSubmission(c *gin.Context) (*intake.Submission, error) {
	sub := &intake.Submission{
		Locale:   h.defaultLocale,
		DraftKey: c.GetHeader(DraftKeyHeader),
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}

		sub.Fields = intake.Fields{
			ClientName:   c.PostForm("client_name"),
			ClientEmail:  c.PostForm("client_email"),
			ClientPhone:  c.PostForm("client_phone"),
			ProjectType:  c.PostForm("project_type"),
			Description:  c.PostForm("description"),
			Colors:       c.PostForm("colors"),
			Budget:       c.PostForm("budget"),
			Deadline:     c.PostForm("deadline"),
			Inspirations: c.PostForm("inspirations"),
		}
		sub.SelectedColors = c.PostFormArray("selected_colors")
		sub.BudgetRange = c.PostForm("budget_range")
		if locale := c.PostForm("locale"); locale != "" {
			sub.Locale = locale
		}

		if form := c.Request.MultipartForm; form != nil {
			for _, fileHeader := range form.File["files"] {
				file, err := fileHeader.Open()
				if err != nil {
					return nil, err
				}
				data, err := io.ReadAll(file)
				file.Close()
				if err != nil {
					return nil, err
				}
				sub.Files = append(sub.Files, intake.FileUpload{
					Name:        fileHeader.Filename,
					ContentType: fileHeader.Header.Get("Content-Type"),
					Size:        fileHeader.Size,
					Data:        data,
				})
			}
		}

		return sub, nil
	}

	var payload submissionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		return nil, err
	}
	sub.Fields = payload.Fields
	sub.SelectedColors = payload.SelectedColors
	sub.BudgetRange = payload.BudgetRange
	if payload.Locale != "" {
		sub.Locale = payload.Locale
	}

	return sub, nil
}
