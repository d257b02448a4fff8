package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/realtime"
	"gorm.io/gorm"
)

type TaskService struct {
	db            *gorm.DB
	projects      *ProjectService
	notifications *NotificationService
	hub           *realtime.Hub
}

func NewTaskService(db *gorm.DB, projects *ProjectService, notifications *NotificationService, hub *realtime.Hub) *TaskService {
	return &TaskService{db: db, projects: projects, notifications: notifications, hub: hub}
}

// Create adds a task to a project the actor belongs to. Assigning the
// task to someone else produces exactly one task_assigned
// notification; no task socket event fires on create.
func (s *TaskService) Create(actor *models.User, req *dto.CreateTaskRequest) (*models.Task, error) {
	if !s.projects.CanAccess(actor, req.ProjectID) {
		return nil, ErrNotMember
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		ID:          uuid.New(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusNew,
		Priority:    priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedBy:   actor.ID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	s.notifyAssignment(actor, &task)
	return &task, nil
}

// List returns tasks matching the filter. Non-admins only see tasks
// in projects they belong to.
func (s *TaskService) List(actor *models.User, filter *dto.TaskFilter, page, limit int) ([]models.Task, int64, error) {
	query := s.db.Model(&models.Task{})

	if !actor.IsAdmin() {
		query = query.Where(
			"project_id IN (?)",
			s.db.Session(&gorm.Session{NewDB: true}).
				Model(&models.ProjectMember{}).
				Select("project_id").
				Where("user_id = ?", actor.ID),
		)
	}

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date >= ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date <= ?", *filter.DueBefore)
	}

	var total int64
	query.Count(&total)

	var tasks []models.Task
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error

	return tasks, total, err
}

// Get loads one task; membership required for non-admins.
func (s *TaskService) Get(actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return nil, err
	}
	if !s.projects.CanAccess(actor, task.ProjectID) {
		return nil, ErrNotMember
	}
	return task, nil
}

// Update applies only the supplied fields. Moving into done stamps
// CompletedAt and emits task_completed to the project room; leaving
// done clears it; any other change emits task_updated.
func (s *TaskService) Update(actor *models.User, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.load(taskID)
	if err != nil {
		return nil, err
	}
	if !s.projects.CanAccess(actor, task.ProjectID) {
		return nil, ErrNotMember
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	assigneeChanged := false
	if req.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *req.AssignedTo) {
		updates["assigned_to"] = *req.AssignedTo
		assigneeChanged = true
	}

	completed := false
	if req.Status != nil && *req.Status != task.Status {
		updates["status"] = *req.Status
		if *req.Status == models.TaskStatusDone {
			now := time.Now()
			updates["completed_at"] = &now
			completed = true
		} else if task.Status == models.TaskStatusDone {
			updates["completed_at"] = gorm.Expr("NULL")
		}
	}

	if len(updates) == 0 {
		return task, nil
	}
	if err := s.db.Model(task).Updates(updates).Error; err != nil {
		return nil, err
	}

	// Re-read so callers see the applied state.
	task, err = s.load(taskID)
	if err != nil {
		return nil, err
	}

	if assigneeChanged {
		s.notifyAssignment(actor, task)
	}

	if completed {
		s.hub.BroadcastToProject(task.ProjectID, realtime.EventTaskCompleted, task)
	} else {
		s.hub.BroadcastToProject(task.ProjectID, realtime.EventTaskUpdated, task)
	}

	return task, nil
}

// ToggleStatus advances the task along the new -> in_progress ->
// done -> new cycle.
func (s *TaskService) ToggleStatus(actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.Get(actor, taskID)
	if err != nil {
		return nil, err
	}
	next := models.NextStatus(task.Status)
	return s.Update(actor, taskID, &dto.UpdateTaskRequest{Status: &next})
}

// Delete hard-removes a task. Admin or creator only.
func (s *TaskService) Delete(actor *models.User, taskID uuid.UUID) error {
	task, err := s.load(taskID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && task.CreatedBy != actor.ID {
		return ErrForbidden
	}
	return s.db.Delete(task).Error
}

func (s *TaskService) notifyAssignment(actor *models.User, task *models.Task) {
	if task.AssignedTo == nil || *task.AssignedTo == actor.ID {
		return
	}
	s.notifications.Notify(NotificationInput{
		UserID:      *task.AssignedTo,
		Kind:        models.NotificationTaskAssigned,
		Title:       "Task assigned",
		Message:     "You were assigned \"" + task.Title + "\"",
		ProjectID:   &task.ProjectID,
		TaskID:      &task.ID,
		TriggeredBy: &actor.ID,
	})
}

func (s *TaskService) load(taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}
