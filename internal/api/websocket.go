package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/design-compactor/backend/internal/models"
)

// WebSocket message types for the progress feed
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeProgress  = "progress"
	MsgTypeComplete  = "complete"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// WSMessage is the envelope for all WebSocket frames
type WSMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSProgressPayload carries the session state on each progress frame
type WSProgressPayload struct {
	Status      models.SessionStatus `json:"status"`
	Progress    float64              `json:"progress"`
	ScreenCount int                  `json:"screenCount"`
	NoteCount   int                  `json:"noteCount"`
}

// WSErrorPayload carries a failure description
type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// DefaultWSMaxMessage caps inbound frames when no limit is configured.
const DefaultWSMaxMessage = 4096 * 1024

// WebSocketHandler streams compaction progress over a WebSocket so the
// frontend does not need to poll the status endpoint.
type WebSocketHandler struct {
	sessionMgr SessionManager
	upgrader   websocket.Upgrader
	maxMessage int64
}

// NewWebSocketHandler creates a new WebSocket progress handler. maxMessage
// bounds inbound frame size in bytes; 0 uses DefaultWSMaxMessage.
func NewWebSocketHandler(sessionMgr SessionManager, maxMessage int64) *WebSocketHandler {
	if maxMessage <= 0 {
		maxMessage = DefaultWSMaxMessage
	}
	return &WebSocketHandler{
		sessionMgr: sessionMgr,
		maxMessage: maxMessage,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
	}
}

// HandleCompactProgress upgrades the connection and streams session progress
// until the session finishes or the client goes away.
func (wsh *WebSocketHandler) HandleCompactProgress(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return NewValidationError("sessionId")
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(wsh.maxMessage)

	fmt.Printf("[WebSocket] Client connected for session %s\n", sessionID)

	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeConnected,
		SessionID: sessionID,
		Timestamp: time.Now().UnixMilli(),
	})

	// Drain client frames so close frames are processed. Pings are relayed
	// to the write loop, which owns the connection for writes.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go wsh.readLoop(ws, done, pings)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(5 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-done:
			return nil

		case <-pings:
			wsh.sendMessage(ws, WSMessage{
				Type:      MsgTypePong,
				SessionID: sessionID,
				Timestamp: time.Now().UnixMilli(),
			})

		case <-ticker.C:
			sess, ok := wsh.sessionMgr.GetSession(sessionID)
			if !ok {
				wsh.sendError(ws, "session not found: "+sessionID, "SESSION_NOT_FOUND")
				return nil
			}

			wsh.sessionMgr.TouchSession(sessionID)

			msgType := MsgTypeProgress
			if sess.Status == models.SessionStatusComplete {
				msgType = MsgTypeComplete
			}

			wsh.sendMessage(ws, WSMessage{
				Type:      msgType,
				SessionID: sessionID,
				Timestamp: time.Now().UnixMilli(),
				Payload: mustJSON(WSProgressPayload{
					Status:      sess.Status,
					Progress:    sess.Progress,
					ScreenCount: sess.ScreenCount,
					NoteCount:   sess.NoteCount,
				}),
			})

			if sess.Status == models.SessionStatusComplete {
				fmt.Printf("[WebSocket] Session %s complete, closing feed\n", sessionID)
				return nil
			}
			if sess.Status == models.SessionStatusError {
				wsh.sendError(ws, "compaction failed", "COMPACTION_ERROR")
				return nil
			}

		case <-timeout.C:
			wsh.sendError(ws, "progress feed timeout", "TIMEOUT")
			return nil
		}
	}
}

// readLoop drains client frames until the connection drops. Writes stay on
// the progress loop goroutine, so ping frames are forwarded on the pings
// channel and answered from there.
func (wsh *WebSocketHandler) readLoop(ws *websocket.Conn, done chan<- struct{}, pings chan<- struct{}) {
	defer close(done)
	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			return
		}
		if msg.Type == MsgTypePing {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}

// Helper methods

func (wsh *WebSocketHandler) sendMessage(ws *websocket.Conn, msg WSMessage) {
	if err := ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, message, code string) {
	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeError,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSErrorPayload{
			Message: message,
			Code:    code,
		}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
