package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project lifecycle states. "Deleting" a project is a transition to
// StatusCompleted, never a row removal.
const (
	ProjectStatusActive    = "active"
	ProjectStatusArchived  = "archived"
	ProjectStatusCompleted = "completed"
)

// Member roles within a project.
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// ProjectCategories is the closed set of accepted categories.
var ProjectCategories = []string{
	"tech", "design", "marketing", "operations", "research", "other",
}

// Project is the top-level unit of collaboration.
type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:50;not null;index" json:"category"`
	Status      string          `gorm:"size:20;default:'active';index" json:"status"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ProjectMember links a user to a project. Every project has exactly
// one owner row unless ownership is explicitly reassigned.
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user" json:"user_id"`
	Role      string    `gorm:"size:20;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
