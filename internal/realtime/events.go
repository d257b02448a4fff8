package realtime

import "github.com/google/uuid"

// Server-to-client event names.
const (
	EventNewMessage        = "new_message"
	EventMessageUpdated    = "message_updated"
	EventMessageDeleted    = "message_deleted"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventUserOnline        = "user_online"
	EventUserOffline       = "user_offline"
	EventNotification      = "notification"
	EventTaskCompleted     = "task_completed"
	EventTaskUpdated       = "task_updated"
)

// Client-to-server event names.
const (
	EventJoinProject  = "join_project"
	EventLeaveProject = "leave_project"
	EventTypingStart  = "typing_start"
	EventTypingStop   = "typing_stop"
)

// Envelope is the wire format for every socket event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound is what clients send over the socket.
type Inbound struct {
	Event     string    `json:"event"`
	ProjectID uuid.UUID `json:"project_id"`
}

// Presence identifies a user in typing/online/offline events.
type Presence struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	ProjectID uuid.UUID `json:"project_id,omitempty"`
}

func projectRoom(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}
