package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from the peer.
	maxMessageSize = 512
)

// reloadMessage tells a freshly connected dashboard to fetch the full request
// list. Any events missed while disconnected are reconciled by that reload.
var reloadMessage = []byte(`{"type":"reload"}`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is same-origin behind the reverse proxy.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one dashboard WebSocket connection.
type Client struct {
	ConnID string
	Conn   *websocket.Conn
	send   chan []byte
}

// WebSocketHandler upgrades dashboard requests and attaches them to the hub.
type WebSocketHandler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewWebSocketHandler creates a handler for the dashboard feed endpoint.
func NewWebSocketHandler(hub *Hub, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger.With().Str("component", "WebSocketHandler").Logger(),
	}
}

// ServeWS handles an incoming HTTP request for the dashboard feed.
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	client := &Client{
		ConnID: uuid.NewString(),
		Conn:   conn,
		send:   make(chan []byte, 256),
	}
	h.hub.RegisterClient(client)

	// Queue the reload instruction before any live events so the dashboard
	// starts from a consistent snapshot.
	client.send <- reloadMessage

	go client.writePump(h.logger.With().Str("connID", client.ConnID).Logger())
	go client.readPump(h.hub, h.logger.With().Str("connID", client.ConnID).Logger())
}

// readPump drains messages from the connection. Dashboards are not expected
// to send anything; the loop exists to detect disconnects and answer pings.
func (c *Client) readPump(hub *Hub, logger zerolog.Logger) {
	defer func() {
		hub.UnregisterClient(c.ConnID)
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Msg("WebSocket read error")
			}
			break
		}
		logger.Warn().Bytes("message", message).Msg("Received unexpected message from dashboard (ignored)")
	}
}

// writePump pumps messages from the send channel to the connection.
func (c *Client) writePump(logger zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Error().Err(err).Msg("Failed to write message")
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn().Err(err).Msg("Failed to send ping")
				return
			}
		}
	}
}
