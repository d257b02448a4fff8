package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

type NotificationService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewNotificationService(db *gorm.DB, hub *realtime.Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// NotificationInput describes a notification to create.
type NotificationInput struct {
	UserID      uuid.UUID
	Kind        string
	Title       string
	Message     string
	ProjectID   *uuid.UUID
	TaskID      *uuid.UUID
	TriggeredBy *uuid.UUID
}

// Notify persists an unread notification and pushes it to the
// recipient's socket. Best-effort: failures are logged and swallowed
// so the primary mutation never fails on a notification.
func (s *NotificationService) Notify(in NotificationInput) {
	notification := models.Notification{
		ID:          uuid.New(),
		UserID:      in.UserID,
		Kind:        in.Kind,
		Title:       in.Title,
		Message:     in.Message,
		ProjectID:   in.ProjectID,
		TaskID:      in.TaskID,
		TriggeredBy: in.TriggeredBy,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		slog.Error("failed to create notification",
			"action", "notify",
			"user_id", in.UserID.String(),
			"kind", in.Kind,
			"error", err)
		return
	}

	s.hub.EmitToUser(in.UserID, realtime.EventNotification, notification)
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one of the recipient's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Model(&notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	}).Error
}

// MarkAllRead flags every unread notification of the recipient.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Delete removes one of the recipient's notifications.
func (s *NotificationService) Delete(userID, notificationID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all of the recipient's notifications.
func (s *NotificationService) Clear(userID uuid.UUID) (int64, error) {
	result := s.db.Where("user_id = ?", userID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
