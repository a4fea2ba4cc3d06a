// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatsProvider reports storage statistics for the health endpoint.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	results StatsProvider
}

// NewHealthHandler creates a new health handler. results may be nil when no
// persistent result store is configured.
func NewHealthHandler(version string, results StatsProvider) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		results: results,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.results != nil {
		resp["results"] = h.results.Stats()
	}
	return c.JSON(http.StatusOK, resp)
}
