// handlers_rules.go - Heuristic rule configuration handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/design-compactor/backend/internal/compaction"
)

// RulesHandlerImpl implements the RulesHandler interface
type RulesHandlerImpl struct {
	sessionMgr SessionManager
}

// NewRulesHandler creates a new rules handler instance
func NewRulesHandler(sessionMgr SessionManager) RulesHandler {
	return &RulesHandlerImpl{
		sessionMgr: sessionMgr,
	}
}

// HandleUploadRules accepts a YAML rules file and applies it to new sessions
func (h *RulesHandlerImpl) HandleUploadRules(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	rules, err := compaction.ParseCompactionRulesFromReader(src)
	if err != nil {
		return NewBadRequestError("invalid rules file", err)
	}

	if err := h.sessionMgr.UseRules(rules); err != nil {
		return NewBadRequestError("rules rejected", err)
	}

	return c.JSON(http.StatusOK, rules)
}

// HandleGetRules returns the heuristic rules currently in effect
func (h *RulesHandlerImpl) HandleGetRules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionMgr.Rules())
}
