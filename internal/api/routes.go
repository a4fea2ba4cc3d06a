// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/design-compactor/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store        storage.Store
	SessionMgr   SessionManager
	ResultStats  StatsProvider
	Version      string
	WSMaxMessage int64 // max inbound websocket frame size in bytes, 0 = default
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Documents DocumentHandler
	Compact   CompactHandler
	Rules     RulesHandler
	WebSocket *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.ResultStats),
		Documents: NewDocumentHandler(deps.Store, deps.SessionMgr),
		Compact:   NewCompactHandler(deps.Store, deps.SessionMgr),
		Rules:     NewRulesHandler(deps.SessionMgr),
		WebSocket: NewWebSocketHandler(deps.SessionMgr, deps.WSMaxMessage),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Design export routes
	fileGroup := e.Group("/api/files")
	fileGroup.POST("/upload", handlers.Documents.HandleUploadDocument)
	fileGroup.POST("/upload/json", handlers.Documents.HandleUploadDocumentJSON)
	fileGroup.GET("/recent", handlers.Documents.HandleGetRecentDocuments)
	fileGroup.GET("/:id", handlers.Documents.HandleGetDocument)
	fileGroup.DELETE("/:id", handlers.Documents.HandleDeleteDocument)

	// Compaction session routes
	compactGroup := e.Group("/api/compact")
	compactGroup.POST("", handlers.Compact.HandleStartCompact)
	compactGroup.GET("/:sessionId/status", handlers.Compact.HandleCompactStatus)
	compactGroup.POST("/:sessionId/keepalive", handlers.Compact.HandleSessionKeepAlive)
	compactGroup.GET("/:sessionId/progress", handlers.Compact.HandleCompactProgressStream)
	compactGroup.GET("/:sessionId/screens", handlers.Compact.HandleGetScreens)
	compactGroup.GET("/:sessionId/screens/:screenId", handlers.Compact.HandleGetScreenText)
	compactGroup.GET("/:sessionId/notes", handlers.Compact.HandleGetNotes)
	compactGroup.GET("/:sessionId/result/msgpack", handlers.Compact.HandleGetResultMsgpack)

	// Heuristic rule routes
	rulesGroup := e.Group("/api/rules")
	rulesGroup.POST("/upload", handlers.Rules.HandleUploadRules)
	rulesGroup.GET("", handlers.Rules.HandleGetRules)

	// WebSocket progress feed
	e.GET("/api/ws/compact/:sessionId", handlers.WebSocket.HandleCompactProgress)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
