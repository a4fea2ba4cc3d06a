package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/design-compactor/backend/internal/models"
	"github.com/design-compactor/backend/internal/session"
	"github.com/design-compactor/backend/internal/storage"
)

const flowExport = `{
	"name": "Onboarding",
	"nodes": [
		{
			"id": "0:1",
			"name": "Page 1",
			"type": "CANVAS",
			"children": [
				{
					"id": "1:1",
					"name": "Welcome",
					"type": "FRAME",
					"children": [
						{"id": "1:2", "name": "Title", "type": "TEXT", "characters": "Hello"}
					]
				}
			]
		}
	]
}`

func newTestHandlers(t *testing.T) (*echo.Echo, *Handlers) {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	sessionMgr := session.NewManager()

	handlers := NewHandlers(&Dependencies{
		Store:      store,
		SessionMgr: sessionMgr,
		Version:    "test",
	})

	e := echo.New()
	SetupMiddleware(e)
	RegisterRoutes(e, handlers)
	return e, handlers
}

func TestUploadCompactFlow(t *testing.T) {
	e, handlers := newTestHandlers(t)

	// 1. Upload the export
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "onboarding.json")
	part.Write([]byte(flowExport))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, handlers.Documents.HandleUploadDocument(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	var info models.FileInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "onboarding.json", info.Name)

	// 2. Start compaction
	startBody, _ := json.Marshal(map[string]string{"fileId": info.ID})
	req = httptest.NewRequest(http.MethodPost, "/api/compact", bytes.NewReader(startBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, handlers.Compact.HandleStartCompact(c)) {
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	var sess models.CompactionSession
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.NotEmpty(t, sess.ID)

	// 3. Poll status until complete
	var status models.CompactionSession
	for i := 0; i < 50; i++ {
		req = httptest.NewRequest(http.MethodGet, "/api/compact/:sessionId/status", nil)
		rec = httptest.NewRecorder()
		c = e.NewContext(req, rec)
		c.SetParamNames("sessionId")
		c.SetParamValues(sess.ID)
		assert.NoError(t, handlers.Compact.HandleCompactStatus(c))
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		if status.Status == models.SessionStatusComplete || status.Status == models.SessionStatusError {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, models.SessionStatusComplete, status.Status)
	assert.Equal(t, 1, status.ScreenCount)

	// 4. Fetch the screen listing
	req = httptest.NewRequest(http.MethodGet, "/api/compact/:sessionId/screens", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(sess.ID)
	if assert.NoError(t, handlers.Compact.HandleGetScreens(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"documentName":"Onboarding"`)
		assert.Contains(t, rec.Body.String(), "Welcome")
	}

	// 5. Fetch one screen as plain text
	req = httptest.NewRequest(http.MethodGet, "/api/compact/:sessionId/screens/:screenId", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("sessionId", "screenId")
	c.SetParamValues(sess.ID, "1:1")
	if assert.NoError(t, handlers.Compact.HandleGetScreenText(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<Screen name="Welcome" type="FRAME">`)
		assert.Contains(t, rec.Body.String(), "Hello")
	}
}

func TestRecentAndDelete(t *testing.T) {
	e, handlers := newTestHandlers(t)

	// Upload two exports
	var ids []string
	for _, name := range []string{"a.json", "b.json"} {
		body := new(bytes.Buffer)
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", name)
		part.Write([]byte(flowExport))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
		req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, handlers.Documents.HandleUploadDocument(c))

		var info models.FileInfo
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		ids = append(ids, info.ID)
	}

	// List recent
	req := httptest.NewRequest(http.MethodGet, "/api/files/recent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, handlers.Documents.HandleGetRecentDocuments(c)) {
		var files []models.FileInfo
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
		assert.Len(t, files, 2)
	}

	// Delete one
	req = httptest.NewRequest(http.MethodDelete, "/api/files/:id", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ids[0])
	if assert.NoError(t, handlers.Documents.HandleDeleteDocument(c)) {
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	// Deleted file is gone
	req = httptest.NewRequest(http.MethodGet, "/api/files/:id", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ids[0])
	err := handlers.Documents.HandleGetDocument(c)
	apiErr, ok := err.(*APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestRulesUpload(t *testing.T) {
	e, handlers := newTestHandlers(t)

	// Default rules to start
	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, handlers.Rules.HandleGetRules(c)) {
		assert.Contains(t, rec.Body.String(), `"opacityThreshold":0.1`)
	}

	// Upload an override
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "rules.yaml")
	part.Write([]byte("opacityThreshold: 0.25\ndecorativeNames:\n  - spacer\n"))
	writer.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/rules/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, handlers.Rules.HandleUploadRules(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// Rules endpoint reflects the override
	req = httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, handlers.Rules.HandleGetRules(c)) {
		assert.Contains(t, rec.Body.String(), `"opacityThreshold":0.25`)
		assert.Contains(t, rec.Body.String(), "spacer")
	}

	// Bad YAML is rejected
	body = new(bytes.Buffer)
	writer = multipart.NewWriter(body)
	part, _ = writer.CreateFormFile("file", "rules.yaml")
	part.Write([]byte("opacityThreshold: [not a number"))
	writer.Close()

	req = httptest.NewRequest(http.MethodPost, "/api/rules/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err := handlers.Rules.HandleUploadRules(c)
	apiErr, ok := err.(*APIError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
