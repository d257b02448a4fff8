package services

import (
	"errors"
	"testing"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

func newMessageService(db *gorm.DB) *MessageService {
	hub := realtime.NewHub()
	notifications := NewNotificationService(db, hub)
	projects := NewProjectService(db, notifications)
	return NewMessageService(db, projects, notifications, hub)
}

func TestMessageSend_MentionNotification(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	message, err := svc.Send(admin, project.ID, "hey @bob, take a look")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	ids := message.MentionIDs()
	if len(ids) != 1 || ids[0] != bob.ID {
		t.Errorf("expected bob in mentions, got %v", ids)
	}
	if got := notificationCount(t, db, bob.ID, models.NotificationMessageMention); got != 1 {
		t.Errorf("expected 1 mention notification, got %d", got)
	}
}

func TestMessageSend_SelfMentionSilent(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	message, err := svc.Send(admin, project.ID, "note to self: @ada remember the demo")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if ids := message.MentionIDs(); len(ids) != 1 || ids[0] != admin.ID {
		t.Errorf("expected self mention recorded, got %v", ids)
	}
	if got := notificationCount(t, db, admin.ID, models.NotificationMessageMention); got != 0 {
		t.Errorf("expected no notification for self mention, got %d", got)
	}
}

func TestMessageSend_RequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	eve := createTestUser(t, db, "Eve", "eve@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)

	_, err := svc.Send(eve, project.ID, "can I join?")
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestMessageList_Chronological(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	for _, content := range []string{"first", "second", "third"} {
		if _, err := svc.Send(admin, project.ID, content); err != nil {
			t.Fatalf("send failed: %v", err)
		}
	}

	messages, total, err := svc.List(admin, project.ID, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", total)
	}
	if messages[0].Content != "first" || messages[2].Content != "third" {
		t.Errorf("expected chronological order, got [%s ... %s]", messages[0].Content, messages[2].Content)
	}
}

func TestMessageEdit_SenderOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	message, err := svc.Send(bob, project.ID, "draft")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Even admins cannot edit someone else's words.
	if _, err := svc.Edit(admin, message.ID, "rewritten"); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-sender edit, got %v", err)
	}

	edited, err := svc.Edit(bob, message.ID, "final")
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.Content != "final" || !edited.IsEdited {
		t.Errorf("expected edited content with is_edited flag, got %+v", edited)
	}
}

func TestMessageDelete_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	message, err := svc.Send(bob, project.ID, "mentioning @ada before deletion")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// Admins may delete any message.
	if err := svc.Delete(admin, message.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var fresh models.Message
	if err := db.First(&fresh, "id = ?", message.ID).Error; err != nil {
		t.Fatalf("row should survive soft delete: %v", err)
	}
	if !fresh.IsDeleted {
		t.Error("expected is_deleted flag")
	}
	if fresh.Content != models.DeletedMessagePlaceholder {
		t.Errorf("expected placeholder content, got %q", fresh.Content)
	}
	if ids := fresh.MentionIDs(); len(ids) != 0 {
		t.Errorf("expected mentions cleared, got %v", ids)
	}

	// Deleted messages cannot be edited or re-deleted.
	if _, err := svc.Edit(bob, message.ID, "resurrect"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound editing deleted message, got %v", err)
	}
	if err := svc.Delete(bob, message.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound re-deleting message, got %v", err)
	}
}
