package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"webstarter-backend/internal/draftstore"
	"webstarter-backend/internal/handlers"
	"webstarter-backend/internal/models"
	"webstarter-backend/internal/notify"
	"webstarter-backend/internal/services"
	"webstarter-backend/internal/supabase"
)

type stubMail struct{}

func (stubMail) Send(to, subject, htmlBody, textBody string) (string, error) {
	return "msg-1", nil
}

type stubStorage struct{}

func (stubStorage) UploadProjectFile(projectID uuid.UUID, fileName, contentType string, data []byte) (string, string, error) {
	key := projectID.String() + "/" + fileName
	return key, "https://storage.example.com/" + key, nil
}

func intakeRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	service := services.NewIntakeService(
		supabase.NewDatabaseClientFromDB(db),
		stubStorage{},
		notify.NewDispatcher(stubMail{}, nil, nil),
		draftstore.NewMemoryStore(),
	)
	handler := handlers.NewIntakeHandler(service, "fr")

	router := gin.New()
	router.POST("/requests", handler.Submit)
	return router, mock
}

func projectInsertRows(projectID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "client_name", "client_email", "client_phone", "project_type", "description",
		"colors", "budget", "deadline", "inspirations", "status", "created_at", "updated_at",
	}).AddRow(projectID, "Marie Dupont", "marie@example.com", nil, "vitrine",
		"Un site vitrine pour mon restaurant", nil, nil, nil, nil, "nouvelle", now, now)
}

func TestSubmit_JSONSuccess(t *testing.T) {
	router, mock := intakeRouter(t)
	projectID := uuid.New()

	mock.ExpectQuery("INSERT INTO projects").
		WillReturnRows(projectInsertRows(projectID))

	body, _ := json.Marshal(map[string]interface{}{
		"client_name":  "Marie Dupont",
		"client_email": "marie@example.com",
		"project_type": "vitrine",
		"description":  "Un site vitrine pour mon restaurant",
	})
	req, _ := http.NewRequest("POST", "/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, projectID.String(), resp.ProjectID)
	assert.Equal(t, models.StatusNouvelle, resp.Status)
	assert.True(t, resp.Notification.Sent)
}

func TestSubmit_ValidationFailureListsEveryField(t *testing.T) {
	router, _ := intakeRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"client_name":  "A",
		"client_email": "not-an-email",
	})
	req, _ := http.NewRequest("POST", "/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 4, "one error per invalid field, all at once")
	assert.Contains(t, resp.Fields, "client_name")
	assert.Contains(t, resp.Fields, "client_email")
	assert.Contains(t, resp.Fields, "project_type")
	assert.Contains(t, resp.Fields, "description")
}

func TestSubmit_MultipartWithFiles(t *testing.T) {
	router, mock := intakeRouter(t)
	projectID := uuid.New()

	mock.ExpectQuery("INSERT INTO projects").
		WillReturnRows(projectInsertRows(projectID))
	mock.ExpectExec("INSERT INTO project_files").
		WillReturnResult(sqlmock.NewResult(1, 1))

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	form.WriteField("client_name", "Marie Dupont")
	form.WriteField("client_email", "marie@example.com")
	form.WriteField("project_type", "vitrine")
	form.WriteField("description", "Un site vitrine pour mon restaurant")
	form.WriteField("selected_colors", "bleu")
	form.WriteField("selected_colors", "blanc")
	part, _ := form.CreateFormFile("files", "logo.png")
	part.Write([]byte("fake image bytes"))
	form.Close()

	req, _ := http.NewRequest("POST", "/requests", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmissionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "logo.png", resp.Files[0].FileName)
	assert.True(t, resp.Files[0].Uploaded)
	assert.NotEmpty(t, resp.Files[0].FileURL)
}

func TestSubmit_DatabaseFailure(t *testing.T) {
	router, mock := intakeRouter(t)

	mock.ExpectQuery("INSERT INTO projects").
		WillReturnError(assert.AnError)

	body, _ := json.Marshal(map[string]interface{}{
		"client_name":  "Marie Dupont",
		"client_email": "marie@example.com",
		"project_type": "vitrine",
		"description":  "Un site vitrine pour mon restaurant",
	})
	req, _ := http.NewRequest("POST", "/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubmit_NilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewIntakeHandler(nil, "fr")
	router := gin.New()
	router.POST("/requests", handler.Submit)

	req, _ := http.NewRequest("POST", "/requests", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
