package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)

// Client is one authenticated WebSocket connection.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  uuid.UUID
	name    string
	send    chan []byte
	rooms   map[string]bool
	canJoin func(projectID uuid.UUID) bool
}

// NewClient wraps an upgraded connection. canJoin gates project room
// subscriptions (membership check); nil allows everything.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, name string, canJoin func(uuid.UUID) bool) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		name:    name,
		send:    make(chan []byte, sendBufferSize),
		rooms:   make(map[string]bool),
		canJoin: canJoin,
	}
}

// trySend queues a payload without blocking; a full buffer drops it.
func (c *Client) trySend(payload []byte) {
	select {
	case c.send <- payload:
	default:
		slog.Warn("socket send buffer full, dropping event", "user_id", c.userID)
	}
}

// ReadPump consumes inbound events until the connection closes, then
// unregisters the client (which also leaves all joined rooms).
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("socket read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid socket message", "user_id", c.userID, "error", err)
			continue
		}
		c.handle(&msg)
	}
}

// WritePump flushes queued payloads and keeps the connection alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(msg *Inbound) {
	switch msg.Event {
	case EventJoinProject:
		if msg.ProjectID == uuid.Nil {
			return
		}
		if c.canJoin != nil && !c.canJoin(msg.ProjectID) {
			slog.Warn("join_project refused", "user_id", c.userID, "project_id", msg.ProjectID)
			return
		}
		c.hub.JoinProject(c, msg.ProjectID)

	case EventLeaveProject:
		if msg.ProjectID != uuid.Nil {
			c.hub.LeaveProject(c, msg.ProjectID)
		}

	case EventTypingStart:
		c.hub.BroadcastToProject(msg.ProjectID, EventUserTyping, Presence{
			UserID: c.userID, Name: c.name, ProjectID: msg.ProjectID,
		}, c)

	case EventTypingStop:
		c.hub.BroadcastToProject(msg.ProjectID, EventUserStoppedTyping, Presence{
			UserID: c.userID, Name: c.name, ProjectID: msg.ProjectID,
		}, c)
	}
}
