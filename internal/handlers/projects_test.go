package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"webstarter-backend/internal/handlers"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/notify"
	"webstarter-backend/internal/services"
	"webstarter-backend/internal/supabase"
)

type failingMail struct{ err error }

func (m failingMail) Send(to, subject, htmlBody, textBody string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "msg-1", nil
}

func projectsRouter(t *testing.T, mailErr error) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbClient := supabase.NewDatabaseClientFromDB(db)
	statusService := services.NewStatusService(dbClient, notify.NewDispatcher(failingMail{err: mailErr}, nil, nil))
	handler := handlers.NewProjectsHandler(dbClient, statusService)

	router := gin.New()
	router.GET("/projects", handler.ListProjects)
	router.GET("/projects/:project_id", handler.GetProject)
	router.PATCH("/projects/:project_id/status", handler.UpdateStatus)
	return router, mock
}

func statusUpdateRows(projectID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "client_name", "client_email", "client_phone", "project_type", "description",
		"colors", "budget", "deadline", "inspirations", "status", "created_at", "updated_at",
	}).AddRow(projectID, "Marie Dupont", "marie@example.com", nil, "vitrine",
		"Un site vitrine", nil, nil, nil, nil, status, now, now)
}

func TestListProjects_InvalidStatusFilter(t *testing.T) {
	router, _ := projectsRouter(t, nil)

	req, _ := http.NewRequest("GET", "/projects?status=approved", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjects_WithFilter(t *testing.T) {
	router, mock := projectsRouter(t, nil)

	mock.ExpectQuery("FROM projects").
		WithArgs(models.StatusEnCours).
		WillReturnRows(statusUpdateRows(uuid.New(), models.StatusEnCours))

	req, _ := http.NewRequest("GET", "/projects?status=en_cours", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProjectListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, models.StatusEnCours, resp.Projects[0].Status)
}

func TestGetProject_InvalidID(t *testing.T) {
	router, _ := projectsRouter(t, nil)

	req, _ := http.NewRequest("GET", "/projects/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_Success(t *testing.T) {
	router, mock := projectsRouter(t, nil)
	projectID := uuid.New()

	mock.ExpectQuery("UPDATE projects").
		WithArgs(models.StatusAcceptee, projectID).
		WillReturnRows(statusUpdateRows(projectID, models.StatusAcceptee))

	body, _ := json.Marshal(models.StatusUpdateRequest{Status: models.StatusAcceptee})
	req, _ := http.NewRequest("PATCH", "/projects/"+projectID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusAcceptee, resp.Project.Status)
	assert.True(t, resp.Notification.Sent)
	assert.Empty(t, resp.Notification.Warning)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	router, _ := projectsRouter(t, nil)

	body, _ := json.Marshal(models.StatusUpdateRequest{Status: "approved"})
	req, _ := http.NewRequest("PATCH", "/projects/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status")
}

func TestUpdateStatus_UnknownProject(t *testing.T) {
	router, mock := projectsRouter(t, nil)

	mock.ExpectQuery("UPDATE projects").
		WillReturnError(sql.ErrNoRows)

	body, _ := json.Marshal(models.StatusUpdateRequest{Status: models.StatusRefusee})
	req, _ := http.NewRequest("PATCH", "/projects/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus_NotificationFailureIsAWarning(t *testing.T) {
	router, mock := projectsRouter(t, assert.AnError)
	projectID := uuid.New()

	mock.ExpectQuery("UPDATE projects").
		WillReturnRows(statusUpdateRows(projectID, models.StatusTermine))

	body, _ := json.Marshal(models.StatusUpdateRequest{Status: models.StatusTermine})
	req, _ := http.NewRequest("PATCH", "/projects/"+projectID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "the persisted change is still a success")

	var resp models.StatusUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusTermine, resp.Project.Status)
	assert.True(t, resp.Notification.Attempted)
	assert.False(t, resp.Notification.Sent)
	assert.NotEmpty(t, resp.Notification.Warning)
}
