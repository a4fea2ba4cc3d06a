// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/design-compactor/backend/internal/models"
)

// DocumentHandler handles design export upload and retrieval operations
type DocumentHandler interface {
	HandleUploadDocument(c echo.Context) error
	HandleUploadDocumentJSON(c echo.Context) error
	HandleGetRecentDocuments(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
}

// CompactHandler handles compaction session operations
type CompactHandler interface {
	HandleStartCompact(c echo.Context) error
	HandleCompactStatus(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleCompactProgressStream(c echo.Context) error
	HandleGetScreens(c echo.Context) error
	HandleGetScreenText(c echo.Context) error
	HandleGetNotes(c echo.Context) error
	HandleGetResultMsgpack(c echo.Context) error
}

// RulesHandler handles heuristic rule configuration operations
type RulesHandler interface {
	HandleUploadRules(c echo.Context) error
	HandleGetRules(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	StartSession(fileID, filePath string) (*models.CompactionSession, error)
	GetSession(id string) (*models.CompactionSession, bool)
	TouchSession(id string) bool
	GetResult(id string) (*models.CompactionResult, bool)
	DeleteResult(fileID string) error
	UseRules(rules *models.CompactionRules) error
	Rules() *models.CompactionRules
}
