package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub tracks connected clients, project rooms and the one-socket-per
// -user index. Broadcasts are fire-and-forget: events for rooms with
// no subscribers are dropped, full client buffers are skipped.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	users      map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		users:      make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes connect/disconnect events. Call once, in a goroutine.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
			h.broadcastAll(EventUserOnline, Presence{UserID: client.userID, Name: client.name})
			slog.Info("socket connected", "user_id", client.userID)

		case client := <-h.unregister:
			if h.removeClient(client) {
				h.broadcastAll(EventUserOffline, Presence{UserID: client.userID, Name: client.name})
				slog.Info("socket disconnected", "user_id", client.userID)
			}

		case <-ticker.C:
			h.mu.RLock()
			clients, rooms := len(h.clients), len(h.rooms)
			h.mu.RUnlock()
			slog.Debug("hub stats", "clients", clients, "rooms", rooms)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	// A newer socket for the same user replaces the older one as the
	// user-room target; the old connection keeps its project rooms.
	h.users[client.userID] = client
}

func (h *Hub) removeClient(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	for room, members := range h.rooms {
		if members[client] {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	if h.users[client.userID] == client {
		delete(h.users, client.userID)
	}
	close(client.send)
	return true
}

// JoinProject subscribes a client to a project room.
func (h *Hub) JoinProject(client *Client, projectID uuid.UUID) {
	room := projectRoom(projectID)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// LeaveProject unsubscribes a client from a project room.
func (h *Hub) LeaveProject(client *Client, projectID uuid.UUID) {
	room := projectRoom(projectID)

	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// BroadcastToProject emits an event to every socket in the project
// room, optionally excluding one client (the originator).
func (h *Hub) BroadcastToProject(projectID uuid.UUID, event string, data any, exclude ...*Client) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[projectRoom(projectID)]
	if !ok {
		return
	}
	for client := range members {
		if len(exclude) > 0 && client == exclude[0] {
			continue
		}
		client.trySend(payload)
	}
}

// EmitToUser delivers an event to the user's live socket, if any.
func (h *Hub) EmitToUser(userID uuid.UUID, event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.users[userID]; ok {
		client.trySend(payload)
	}
}

func (h *Hub) broadcastAll(event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.trySend(payload)
	}
}

// ClientCount returns the number of live sockets.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func marshalEvent(event string, data any) ([]byte, error) {
	b, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to marshal socket event", "event", event, "error", err)
	}
	return b, err
}
