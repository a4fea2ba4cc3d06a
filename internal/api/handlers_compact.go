// handlers_compact.go - Compaction session operation handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/design-compactor/backend/internal/models"
	"github.com/design-compactor/backend/internal/storage"
)

// CompactHandlerImpl implements the CompactHandler interface
type CompactHandlerImpl struct {
	store      storage.Store
	sessionMgr SessionManager
}

// NewCompactHandler creates a new compact handler instance
func NewCompactHandler(store storage.Store, sessionMgr SessionManager) CompactHandler {
	return &CompactHandlerImpl{
		store:      store,
		sessionMgr: sessionMgr,
	}
}

// HandleStartCompact starts a new compaction session for a stored export
func (h *CompactHandlerImpl) HandleStartCompact(c echo.Context) error {
	var req startCompactRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.FileID == "" {
		return NewValidationError("fileId")
	}

	info, err := h.store.Get(req.FileID)
	if err != nil {
		return NewNotFoundError("file", req.FileID)
	}

	path, err := h.store.GetFilePath(info.ID)
	if err != nil {
		return NewInternalError("failed to get file path", err)
	}

	sess, err := h.sessionMgr.StartSession(info.ID, path)
	if err != nil {
		return NewInternalError("failed to start session", err)
	}

	return c.JSON(http.StatusAccepted, sess)
}

// HandleCompactStatus returns the current status of a compaction session
func (h *CompactHandlerImpl) HandleCompactStatus(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	// Touch session to prevent cleanup while being viewed
	h.sessionMgr.TouchSession(id)

	return c.JSON(http.StatusOK, sess)
}

// HandleSessionKeepAlive extends session lifetime for active viewing
func (h *CompactHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleCompactProgressStream streams compaction progress via SSE
func (h *CompactHandlerImpl) HandleCompactProgressStream(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	sess, ok := h.sessionMgr.GetSession(id)
	if !ok {
		h.sendSSEError(c, "session not found")
		return nil
	}

	// Send initial status
	h.sendSSEData(c, sess)

	// Stream updates until complete or error
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-ticker.C:
			sess, ok := h.sessionMgr.GetSession(id)
			if !ok {
				h.sendSSEError(c, "session not found")
				return nil
			}

			h.sendSSEData(c, sess)

			if sess.Status == models.SessionStatusComplete ||
				sess.Status == models.SessionStatusError {
				return nil
			}

		case <-timeout.C:
			h.sendSSEError(c, "stream timeout")
			return nil
		}
	}
}

// HandleGetScreens returns the screen listing with compact text for a session
func (h *CompactHandlerImpl) HandleGetScreens(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	result, ok := h.getCompleteResult(c, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	h.sessionMgr.TouchSession(id)

	return c.JSON(http.StatusOK, screensResponse{
		DocumentName: result.DocumentName,
		Screens:      result.Screens,
		RawBytes:     result.RawBytes,
		CompactBytes: result.CompactBytes,
	})
}

// HandleGetScreenText returns one screen's compact text as plain text
func (h *CompactHandlerImpl) HandleGetScreenText(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}
	screenID := c.Param("screenId")
	if screenID == "" {
		return NewValidationError("screenId")
	}

	result, ok := h.getCompleteResult(c, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	screen := result.Screen(screenID)
	if screen == nil {
		return NewNotFoundError("screen", screenID)
	}

	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(screen.Text))
}

// HandleGetNotes returns the notes collected during expansion
func (h *CompactHandlerImpl) HandleGetNotes(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	result, ok := h.getCompleteResult(c, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, result.Notes)
}

// HandleGetResultMsgpack returns the full result in MessagePack format
func (h *CompactHandlerImpl) HandleGetResultMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	result, ok := h.getCompleteResult(c, id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(result)
	if err != nil {
		return NewInternalError("failed to encode result", err)
	}

	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// Request/Response types

type startCompactRequest struct {
	FileID string `json:"fileId"`
}

type screensResponse struct {
	DocumentName string                `json:"documentName"`
	Screens      []models.ScreenOutput `json:"screens"`
	RawBytes     int64                 `json:"rawBytes"`
	CompactBytes int64                 `json:"compactBytes"`
}

// Helper methods

// getCompleteResult returns the result for a session once compaction finished.
func (h *CompactHandlerImpl) getCompleteResult(c echo.Context, id string) (*models.CompactionResult, bool) {
	result, ok := h.sessionMgr.GetResult(id)
	if !ok {
		return nil, false
	}
	return result, true
}

func (h *CompactHandlerImpl) sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func (h *CompactHandlerImpl) sendSSEError(c echo.Context, message string) {
	h.sendSSEData(c, map[string]string{"error": message})
}
