package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds (closed enum).
const (
	NotificationTaskAssigned   = "task_assigned"
	NotificationMessageMention = "message_mention"
	NotificationMemberAdded    = "member_added"
)

// Notification is created only as a side effect of another mutation
// and belongs to exactly one recipient.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        string     `gorm:"size:30;not null;index" json:"kind"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Message     string     `gorm:"type:text" json:"message"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	TaskID      *uuid.UUID `gorm:"type:uuid" json:"task_id"`
	TriggeredBy *uuid.UUID `gorm:"type:uuid" json:"triggered_by"`
	IsRead      bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
