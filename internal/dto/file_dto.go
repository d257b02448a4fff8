package dto

import (
	"time"

	"github.com/google/uuid"
)

type FileResponse struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	UploadedBy   uuid.UUID `json:"uploaded_by"`
	OriginalName string    `json:"original_name"`
	Description  string    `json:"description"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	StorageType  string    `json:"storage_type"`
	CreatedAt    time.Time `json:"created_at"`
}
