package services

import (
	"errors"
	"testing"

	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

func newTaskService(db *gorm.DB) *TaskService {
	hub := realtime.NewHub()
	notifications := NewNotificationService(db, hub)
	projects := NewProjectService(db, notifications)
	return NewTaskService(db, projects, notifications, hub)
}

func TestTaskCreate_AssignmentNotification(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	task, err := svc.Create(admin, &dto.CreateTaskRequest{
		ProjectID:  project.ID,
		Title:      "Write release notes",
		AssignedTo: &bob.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Status != models.TaskStatusNew {
		t.Errorf("expected new status, got %s", task.Status)
	}
	if task.Priority != models.TaskPriorityMedium {
		t.Errorf("expected default medium priority, got %s", task.Priority)
	}

	if got := notificationCount(t, db, bob.ID, models.NotificationTaskAssigned); got != 1 {
		t.Errorf("expected exactly 1 task_assigned notification, got %d", got)
	}
}

func TestTaskCreate_SelfAssignmentSilent(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	_, err := svc.Create(admin, &dto.CreateTaskRequest{
		ProjectID:  project.ID,
		Title:      "Tidy backlog",
		AssignedTo: &admin.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if got := notificationCount(t, db, admin.ID, models.NotificationTaskAssigned); got != 0 {
		t.Errorf("expected no notification for self-assignment, got %d", got)
	}
}

func TestTaskCreate_RequiresMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	eve := createTestUser(t, db, "Eve", "eve@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)

	_, err := svc.Create(eve, &dto.CreateTaskRequest{ProjectID: project.ID, Title: "Sneaky task"})
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember for outsider, got %v", err)
	}
}

func TestTaskUpdate_CompletionStampsTimestamp(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	task, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: project.ID, Title: "Ship it"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.CompletedAt != nil {
		t.Error("expected no completion timestamp on a new task")
	}

	done := models.TaskStatusDone
	task, err = svc.Update(admin, task.ID, &dto.UpdateTaskRequest{Status: &done})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Error("expected completion timestamp after moving to done")
	}

	// Reopening clears it.
	reopened := models.TaskStatusInProgress
	task, err = svc.Update(admin, task.ID, &dto.UpdateTaskRequest{Status: &reopened})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if task.CompletedAt != nil {
		t.Error("expected completion timestamp cleared after leaving done")
	}
}

func TestTaskToggleStatus_Cycles(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	project := createTestProject(t, db, admin)

	task, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: project.ID, Title: "Cycle me"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	want := []string{models.TaskStatusInProgress, models.TaskStatusDone, models.TaskStatusNew}
	for _, expected := range want {
		task, err = svc.ToggleStatus(admin, task.ID)
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if task.Status != expected {
			t.Errorf("expected status %s, got %s", expected, task.Status)
		}
	}
	if task.CompletedAt != nil {
		t.Error("expected completion timestamp cleared after full cycle")
	}
}

func TestTaskUpdate_ReassignmentNotifies(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	task, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: project.ID, Title: "Handover"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(admin, task.ID, &dto.UpdateTaskRequest{AssignedTo: &bob.ID}); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if got := notificationCount(t, db, bob.ID, models.NotificationTaskAssigned); got != 1 {
		t.Errorf("expected 1 task_assigned notification after reassign, got %d", got)
	}

	// Updating an unrelated field does not re-notify.
	title := "Handover (renamed)"
	if _, err := svc.Update(admin, task.ID, &dto.UpdateTaskRequest{Title: &title}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if got := notificationCount(t, db, bob.ID, models.NotificationTaskAssigned); got != 1 {
		t.Errorf("expected no extra notification after rename, got %d", got)
	}
}

func TestTaskList_MembershipScoped(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)

	mine := createTestProject(t, db, admin)
	other := createTestProject(t, db, admin)
	addTestMember(t, db, mine.ID, bob.ID)

	if _, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: mine.ID, Title: "Visible"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: other.ID, Title: "Hidden"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks, total, err := svc.List(bob, &dto.TaskFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Fatalf("expected bob to see 1 task, got %d", total)
	}
	if tasks[0].Title != "Visible" {
		t.Errorf("expected the task in bob's project, got %q", tasks[0].Title)
	}
}

func TestTaskDelete_CreatorOrAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	project := createTestProject(t, db, admin)
	addTestMember(t, db, project.ID, bob.ID)

	task, err := svc.Create(admin, &dto.CreateTaskRequest{ProjectID: project.ID, Title: "Protected"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(bob, task.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-creator, got %v", err)
	}

	if err := svc.Delete(admin, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(admin, task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after hard delete, got %v", err)
	}
}
