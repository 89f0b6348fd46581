package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/giygas/bulario-chat/chat"
	"github.com/giygas/bulario-chat/logging"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = (wsPongWait * 9) / 10
	wsMaxFrameSize = 1 << 20
)

// wsConn serialises writes from the read loop and the running turn
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(e)
}

func (c *wsConn) keepalive(ctx context.Context) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// ServeWebSocket runs one chat session over a WebSocket. Text frames are
// user messages; a message arriving while a reply is streaming gets a busy
// event. Closing the socket cancels the running turn.
func (h *HTTPHandlerImpl) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	ws := &wsConn{conn: conn}
	session := chat.NewSession(h.turns)
	defer session.Close()

	ctx, cancel := context.WithCancel(r.Context())
	var turns sync.WaitGroup
	defer func() {
		cancel()
		turns.Wait()
	}()

	logging.Info("Chat session opened", "session_id", session.ID, "handler", h.turns.Name())
	defer func() {
		logging.Info("Chat session closed", "session_id", session.ID, "duration", time.Since(session.StartedAt).String())
	}()

	if err := ws.send(welcomeEvent(session.Welcome())); err != nil {
		logging.Warn("Failed to send welcome", "session_id", session.ID, "error", err)
		return
	}

	go ws.keepalive(ctx)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn("WebSocket read failed", "session_id", session.ID, "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		text := string(data)
		if err := h.validator.ValidateMessage(text); err != nil {
			_ = ws.send(Event{Type: EventError, Content: msgInvalidMessage + err.Error()})
			continue
		}

		done, err := session.Start(ctx, text, newEventSink(ws.send))
		if err != nil {
			if errors.Is(err, chat.ErrTurnInProgress) {
				_ = ws.send(Event{Type: EventBusy, Content: msgBusy})
			}
			continue
		}

		turns.Go(func() {
			if err := <-done; err != nil {
				logging.Debug("Chat turn not delivered", "session_id", session.ID, "error", err)
			}
		})
	}
}
