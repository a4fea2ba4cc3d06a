// websocket_test.go - Tests for the WebSocket progress feed
package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/design-compactor/backend/internal/models"
)

func newWSTestServer(t *testing.T, sessionMgr SessionManager) string {
	t.Helper()
	e := echo.New()
	handler := NewWebSocketHandler(sessionMgr, 0)
	e.GET("/api/ws/compact/:sessionId", handler.HandleCompactProgress)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialWS(t *testing.T, wsURL, sessionID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/api/ws/compact/"+sessionID, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWebSocketProgressFeed(t *testing.T) {
	sessionMgr := NewMockSessionManager()
	sess := models.NewCompactionSession("ws-1", "file-1")
	sess.Status = models.SessionStatusComplete
	sess.Progress = 100
	sess.ScreenCount = 2
	sessionMgr.sessions[sess.ID] = sess

	wsURL := newWSTestServer(t, sessionMgr)
	conn := dialWS(t, wsURL, "ws-1")

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != MsgTypeConnected {
		t.Errorf("expected connected frame first, got %s", msg.Type)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != MsgTypeComplete {
		t.Errorf("expected complete frame, got %s", msg.Type)
	}
}

func TestWebSocketPingAnswered(t *testing.T) {
	sessionMgr := NewMockSessionManager()
	sess := models.NewCompactionSession("ws-2", "file-1")
	sess.Status = models.SessionStatusCompacting
	sess.Progress = 40
	sessionMgr.sessions[sess.ID] = sess

	wsURL := newWSTestServer(t, sessionMgr)
	conn := dialWS(t, wsURL, "ws-2")

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != MsgTypeConnected {
		t.Fatalf("expected connected frame first, got %s", msg.Type)
	}

	if err := conn.WriteJSON(WSMessage{Type: MsgTypePing, Timestamp: time.Now().UnixMilli()}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Progress frames interleave with the pong, so scan a bounded window
	gotPong := false
	for i := 0; i < 20; i++ {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if msg.Type == MsgTypePong {
			gotPong = true
			break
		}
		if msg.Type != MsgTypeProgress {
			t.Fatalf("unexpected frame type %s", msg.Type)
		}
	}
	if !gotPong {
		t.Errorf("expected a pong frame in response to ping")
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	sessionMgr := NewMockSessionManager()
	wsURL := newWSTestServer(t, sessionMgr)
	conn := dialWS(t, wsURL, "nope")

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != MsgTypeConnected {
		t.Fatalf("expected connected frame first, got %s", msg.Type)
	}

	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.Type != MsgTypeError {
		t.Errorf("expected error frame for unknown session, got %s", msg.Type)
	}
}
