// handlers_health_test.go - Tests for the health endpoint
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubStatsProvider struct {
	stats map[string]interface{}
}

func (s *stubStatsProvider) Stats() map[string]interface{} {
	return s.stats
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	provider := &stubStatsProvider{stats: map[string]interface{}{
		"resultCount": 3,
		"totalSize":   int64(1024),
	}}
	handler := NewHealthHandler("1.2.3", provider)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleHealth(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %v", body["version"])
	}
	results, ok := body["results"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected results detail, got %v", body["results"])
	}
	if results["resultCount"] != float64(3) {
		t.Errorf("expected resultCount 3, got %v", results["resultCount"])
	}
}

func TestHealthHandler_NoStatsProvider(t *testing.T) {
	handler := NewHealthHandler("dev", nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleHealth(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if _, present := body["results"]; present {
		t.Errorf("expected no results detail without a store, got %v", body["results"])
	}
}
