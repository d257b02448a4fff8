package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	ProjectID   uuid.UUID  `json:"project_id" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest only applies the fields that are supplied.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=new in_progress done"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *uuid.UUID `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskFilter struct {
	ProjectID  *uuid.UUID
	Status     string
	Priority   string
	AssignedTo *uuid.UUID
	DueBefore  *time.Time
	DueAfter   *time.Time
}
