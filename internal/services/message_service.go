package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

type MessageService struct {
	db            *gorm.DB
	projects      *ProjectService
	notifications *NotificationService
	hub           *realtime.Hub
}

func NewMessageService(db *gorm.DB, projects *ProjectService, notifications *NotificationService, hub *realtime.Hub) *MessageService {
	return &MessageService{db: db, projects: projects, notifications: notifications, hub: hub}
}

// Send persists a chat message, resolves @mentions against the active
// user set, notifies each mentioned user and broadcasts new_message
// to the project room.
func (s *MessageService) Send(actor *models.User, projectID uuid.UUID, content string) (*models.Message, error) {
	if !s.projects.CanAccess(actor, projectID) {
		return nil, ErrNotMember
	}

	mentions := ParseMentions(content, s.activeUsers())

	message := models.Message{
		ID:        uuid.New(),
		ProjectID: projectID,
		SenderID:  actor.ID,
		Content:   content,
	}
	message.SetMentions(mentions)

	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	for _, userID := range mentions {
		if userID == actor.ID {
			continue
		}
		s.notifications.Notify(NotificationInput{
			UserID:      userID,
			Kind:        models.NotificationMessageMention,
			Title:       "You were mentioned",
			Message:     actor.Name + " mentioned you in a message",
			ProjectID:   &projectID,
			TriggeredBy: &actor.ID,
		})
	}

	s.hub.BroadcastToProject(projectID, realtime.EventNewMessage, &message)
	return &message, nil
}

// List returns one page of messages in chronological order. The page
// is taken newest-first (page 1 is the latest) and reversed for
// display.
func (s *MessageService) List(actor *models.User, projectID uuid.UUID, page, limit int) ([]models.Message, int64, error) {
	if !s.projects.CanAccess(actor, projectID) {
		return nil, 0, ErrNotMember
	}

	var total int64
	s.db.Model(&models.Message{}).Scopes(models.ForProject(projectID)).Count(&total)

	var messages []models.Message
	err := s.db.Scopes(models.ForProject(projectID)).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, total, nil
}

// Edit replaces the content of the actor's own message. Mentions are
// re-resolved, but no new notifications fire on edit.
func (s *MessageService) Edit(actor *models.User, messageID uuid.UUID, content string) (*models.Message, error) {
	message, err := s.load(messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != actor.ID {
		return nil, ErrForbidden
	}
	if message.IsDeleted {
		return nil, ErrNotFound
	}

	message.Content = content
	message.IsEdited = true
	message.SetMentions(ParseMentions(content, s.activeUsers()))

	err = s.db.Model(message).Updates(map[string]interface{}{
		"content":   message.Content,
		"is_edited": true,
		"mentions":  message.Mentions,
	}).Error
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToProject(message.ProjectID, realtime.EventMessageUpdated, message)
	return message, nil
}

// Delete soft-deletes: the row survives with placeholder content.
// Sender may delete their own message; admins may delete any.
func (s *MessageService) Delete(actor *models.User, messageID uuid.UUID) error {
	message, err := s.load(messageID)
	if err != nil {
		return err
	}
	if message.SenderID != actor.ID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if message.IsDeleted {
		return ErrNotFound
	}

	message.Content = models.DeletedMessagePlaceholder
	message.IsDeleted = true
	message.SetMentions(nil)

	err = s.db.Model(message).Updates(map[string]interface{}{
		"content":    message.Content,
		"is_deleted": true,
		"mentions":   message.Mentions,
	}).Error
	if err != nil {
		return err
	}

	s.hub.BroadcastToProject(message.ProjectID, realtime.EventMessageDeleted, map[string]interface{}{
		"id":         message.ID,
		"project_id": message.ProjectID,
	})
	return nil
}

func (s *MessageService) activeUsers() []models.User {
	var users []models.User
	s.db.Scopes(models.ActiveUsers).Find(&users)
	return users
}

func (s *MessageService) load(messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, "id = ?", messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}
