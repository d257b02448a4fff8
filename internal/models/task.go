package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses. The UI toggle cycles new -> in_progress -> done -> new.
const (
	TaskStatusNew        = "new"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task belongs to exactly one project. CompletedAt is non-nil iff
// Status is done. Tasks are hard-deleted, so no soft-delete column.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;default:'new';index" json:"status"`
	Priority    string     `gorm:"size:10;default:'medium';index" json:"priority"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NextStatus returns the status the UI toggle moves to.
func NextStatus(status string) string {
	switch status {
	case TaskStatusNew:
		return TaskStatusInProgress
	case TaskStatusInProgress:
		return TaskStatusDone
	default:
		return TaskStatusNew
	}
}
