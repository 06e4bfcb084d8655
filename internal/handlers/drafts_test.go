package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"webstarter-backend/internal/draftstore"
	"webstarter-backend/internal/handlers"
	"webstarter-backend/internal/intake"
)

func draftsRouter(store intake.DraftStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewDraftsHandler(store)

	router := gin.New()
	router.GET("/drafts/:draft_key", handler.Load)
	router.PUT("/drafts/:draft_key", handler.Save)
	router.DELETE("/drafts/:draft_key", handler.Clear)
	return router
}

func TestDrafts_LoadMissing(t *testing.T) {
	router := draftsRouter(draftstore.NewMemoryStore())

	req, _ := http.NewRequest("GET", "/drafts/key-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDrafts_SaveThenLoad(t *testing.T) {
	store := draftstore.NewMemoryStore()
	router := draftsRouter(store)

	body, _ := json.Marshal(intake.Draft{
		Fields:         intake.Fields{ClientName: "Marie", ClientEmail: "marie@example.com"},
		SelectedColors: []string{"bleu"},
		CurrentStep:    2,
	})
	req, _ := http.NewRequest("PUT", "/drafts/key-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req, _ = http.NewRequest("GET", "/drafts/key-1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var loaded intake.Draft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, "Marie", loaded.ClientName)
	assert.Equal(t, []string{"bleu"}, loaded.SelectedColors)
	assert.Equal(t, 2, loaded.CurrentStep)
	assert.False(t, loaded.SavedAt.IsZero(), "the save timestamp is set server-side")
}

func TestDrafts_SaveIgnoresClientTimestamp(t *testing.T) {
	store := draftstore.NewMemoryStore()
	router := draftsRouter(store)

	stale := time.Now().Add(-30 * 24 * time.Hour)
	body, _ := json.Marshal(intake.Draft{
		Fields:  intake.Fields{ClientName: "Marie"},
		SavedAt: stale,
	})
	req, _ := http.NewRequest("PUT", "/drafts/key-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	loaded, err := store.Load(context.Background(), "key-1")
	require.NoError(t, err)
	require.NotNil(t, loaded, "a stale client timestamp must not make the draft expired on arrival")
	assert.True(t, loaded.SavedAt.After(stale))
}

func TestDrafts_Clear(t *testing.T) {
	store := draftstore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "key-1", intake.Draft{SavedAt: time.Now()}))
	router := draftsRouter(store)

	req, _ := http.NewRequest("DELETE", "/drafts/key-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	loaded, err := store.Load(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDrafts_SaveBadPayload(t *testing.T) {
	router := draftsRouter(draftstore.NewMemoryStore())

	req, _ := http.NewRequest("PUT", "/drafts/key-1", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
