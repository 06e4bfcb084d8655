package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"webstarter-backend/internal/middleware"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/push"
	"webstarter-backend/internal/supabase"
)

type AdminHandler struct {
	authClient *supabase.Client
	dbClient   *supabase.DatabaseClient
	pushClient *push.Client
}

func NewAdminHandler(authClient *supabase.Client, dbClient *supabase.DatabaseClient, pushClient *push.Client) *AdminHandler {
	return &AdminHandler{
		authClient: authClient,
		dbClient:   dbClient,
		pushClient: pushClient,
	}
}

// Login godoc
// @Summary     Admin login
// @Description Authenticates against Supabase and reports whether the account is an active admin. A valid login by a non-admin account still returns the token so the session endpoint can explain the denial.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	if h.authClient == nil || h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "authentication not available"})
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	session, err := h.authClient.SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid credentials"})
		return
	}

	isAdmin, err := h.dbClient.IsAdmin(session.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to check admin status",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: session.AccessToken,
		Email:       session.Email,
		IsAdmin:     isAdmin,
	})
}

// Session godoc
// @Summary     Current admin session
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SessionResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /admin/session [get]
func (h *AdminHandler) Session(c *gin.Context) {
	email := c.GetString(middleware.UserEmailKey)
	c.JSON(http.StatusOK, models.SessionResponse{
		Email:   email,
		IsAdmin: true,
	})
}

// CreateAdmin godoc
// @Summary     Grant admin access to an email
// @Description Adding an email that was previously deactivated reactivates it instead of failing on the unique constraint.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateAdminRequest true "Admin to add"
// @Success     201 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	admin, err := h.dbClient.CreateAdmin(req.Email, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create admin",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    admin.ID.String(),
		"email": admin.Email,
	})
}

// DeactivateAdmin godoc
// @Summary     Revoke admin access from an email
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       email path string true "Admin email"
// @Success     204 "No Content"
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/admins/{email} [delete]
func (h *AdminHandler) DeactivateAdmin(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	email := c.Param("email")
	if err := h.dbClient.DeactivateAdmin(email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "admin not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to deactivate admin",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterDevice godoc
// @Summary     Register a device token for push notifications
// @Description Re-registering the same token updates its owner rather than duplicating it.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RegisterDeviceRequest true "FCM device token"
// @Success     204 "No Content"
// @Failure     400 {object} models.ErrorResponse
// @Router      /admin/devices [post]
func (h *AdminHandler) RegisterDevice(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	var req models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	email := c.GetString(middleware.UserEmailKey)
	if err := h.dbClient.SaveDeviceToken(req.Token, email); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to register device",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// NotifyTest godoc
// @Summary     Send a test push notification
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.PushTestRequest true "Target token and payload"
// @Success     200 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /admin/notify-test [post]
func (h *AdminHandler) NotifyTest(c *gin.Context) {
	if h.pushClient == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "push notifications not configured",
			Message: "FIREBASE_CREDENTIALS_JSON is not set",
		})
		return
	}

	var req models.PushTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	messageID, err := h.pushClient.Send(c.Request.Context(), req.Token, req.Title, req.Body, req.Data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to send push notification",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}
