package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DeletedMessagePlaceholder replaces the content of a deleted message.
const DeletedMessagePlaceholder = "This message has been deleted"

// Message is a chat message inside a project. Mentions holds the
// resolved user ids referenced by @name tokens in the content.
// Deletion is soft: the row stays, content becomes the placeholder.
type Message struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	SenderID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Mentions  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"mentions"`
	IsEdited  bool           `gorm:"default:false" json:"is_edited"`
	IsDeleted bool           `gorm:"default:false" json:"is_deleted"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SetMentions stores the given user ids in the Mentions JSON column.
func (m *Message) SetMentions(ids []uuid.UUID) {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		m.Mentions = datatypes.JSON("[]")
		return
	}
	m.Mentions = datatypes.JSON(b)
}

// MentionIDs decodes the Mentions JSON column.
func (m *Message) MentionIDs() []uuid.UUID {
	var ids []uuid.UUID
	if len(m.Mentions) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Mentions, &ids); err != nil {
		return nil
	}
	return ids
}
