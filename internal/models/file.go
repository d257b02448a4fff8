package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage backends for uploaded files.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// File is an attachment uploaded into a project. StoredName is the
// server-chosen blob name; OriginalName is what the client sent.
type File struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	UploadedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	StoredName   string         `gorm:"size:255;not null" json:"stored_name"`
	OriginalName string         `gorm:"size:255;not null" json:"original_name"`
	Description  string         `gorm:"type:text" json:"description"`
	ContentType  string         `gorm:"size:100;not null" json:"content_type"`
	Size         int64          `gorm:"not null" json:"size"`
	StorageType  string         `gorm:"size:10;default:'local'" json:"storage_type"`
	StoragePath  string         `gorm:"size:500;not null" json:"storage_path"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
