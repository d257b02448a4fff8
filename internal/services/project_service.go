package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"gorm.io/gorm"
)

// legalProjectTransitions lists the allowed lifecycle moves.
// Completed is terminal.
var legalProjectTransitions = map[string][]string{
	models.ProjectStatusActive:   {models.ProjectStatusArchived, models.ProjectStatusCompleted},
	models.ProjectStatusArchived: {models.ProjectStatusActive, models.ProjectStatusCompleted},
}

type ProjectService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewProjectService(db *gorm.DB, notifications *NotificationService) *ProjectService {
	return &ProjectService{db: db, notifications: notifications}
}

// Create opens a new project with the actor as its sole owner.
// Admin-only.
func (s *ProjectService) Create(actor *models.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	project := models.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.ProjectStatusActive,
		CreatedBy:   actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		owner := models.ProjectMember{
			ID:        uuid.New(),
			ProjectID: project.ID,
			UserID:    actor.ID,
			Role:      models.MemberRoleOwner,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(&project, true)
}

// List returns the projects visible to the actor, optionally filtered
// by status and category.
func (s *ProjectService) List(actor *models.User, status, category string, page, limit int) ([]dto.ProjectResponse, int64, error) {
	query := s.db.Model(&models.Project{}).Scopes(models.VisibleProjects(actor))
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp, err := s.toResponse(&projects[i], false)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

// Get loads one project with counts and members; membership required
// for non-admins.
func (s *ProjectService) Get(actor *models.User, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !s.IsMember(projectID, actor.ID) {
		return nil, ErrNotMember
	}
	return s.toResponse(project, true)
}

// Update applies the supplied fields. Owner or admin only. Status
// changes go through the lifecycle transition table.
func (s *ProjectService) Update(actor *models.User, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, projectID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Status != nil && *req.Status != project.Status {
		if !transitionAllowed(project.Status, *req.Status) {
			return nil, ErrInvalidTransition
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.toResponse(project, true)
}

// Delete is the lifecycle transition to completed, not a row removal.
func (s *ProjectService) Delete(actor *models.User, projectID uuid.UUID) error {
	project, err := s.load(projectID)
	if err != nil {
		return err
	}
	if !s.canManage(actor, projectID) {
		return ErrForbidden
	}
	if project.Status == models.ProjectStatusCompleted {
		return ErrInvalidTransition
	}
	return s.db.Model(project).Update("status", models.ProjectStatusCompleted).Error
}

// AddMember attaches an active user to the project and notifies them.
func (s *ProjectService) AddMember(actor *models.User, projectID uuid.UUID, req *dto.AddMemberRequest) error {
	project, err := s.load(projectID)
	if err != nil {
		return err
	}
	if !s.canManage(actor, projectID) {
		return ErrForbidden
	}

	var target models.User
	if err := s.db.Scopes(models.ActiveUsers).First(&target, "id = ?", req.UserID).Error; err != nil {
		return ErrNotFound
	}

	if s.IsMember(projectID, req.UserID) {
		return ErrAlreadyMember
	}

	role := req.Role
	if role == "" || role == models.MemberRoleOwner {
		// Ownership changes go through TransferOwnership only.
		role = models.MemberRoleMember
	}

	member := models.ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      role,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return err
	}

	s.notifications.Notify(NotificationInput{
		UserID:      req.UserID,
		Kind:        models.NotificationMemberAdded,
		Title:       "Added to project",
		Message:     "You were added to \"" + project.Name + "\"",
		ProjectID:   &projectID,
		TriggeredBy: &actor.ID,
	})
	return nil
}

// RemoveMember detaches a member. The owner row cannot be removed;
// ownership must be transferred first.
func (s *ProjectService) RemoveMember(actor *models.User, projectID, userID uuid.UUID) error {
	if _, err := s.load(projectID); err != nil {
		return err
	}
	if !s.canManage(actor, projectID) {
		return ErrForbidden
	}

	var member models.ProjectMember
	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		return ErrNotFound
	}
	if member.Role == models.MemberRoleOwner {
		return ErrOwnerProtected
	}

	return s.db.Delete(&member).Error
}

// TransferOwnership demotes the current owner to member and promotes
// the target, keeping exactly one owner row.
func (s *ProjectService) TransferOwnership(actor *models.User, projectID, newOwnerID uuid.UUID) error {
	if _, err := s.load(projectID); err != nil {
		return err
	}
	if !s.canManage(actor, projectID) {
		return ErrForbidden
	}
	if !s.IsMember(projectID, newOwnerID) {
		return ErrNotMember
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND role = ?", projectID, models.MemberRoleOwner).
			Update("role", models.MemberRoleMember).Error; err != nil {
			return err
		}
		return tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", projectID, newOwnerID).
			Update("role", models.MemberRoleOwner).Error
	})
}

// IsMember reports whether the user has a membership row.
func (s *ProjectService) IsMember(projectID, userID uuid.UUID) bool {
	var count int64
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count)
	return count > 0
}

// CanAccess reports whether the actor may read project-scoped data.
func (s *ProjectService) CanAccess(actor *models.User, projectID uuid.UUID) bool {
	return actor.IsAdmin() || s.IsMember(projectID, actor.ID)
}

func (s *ProjectService) canManage(actor *models.User, projectID uuid.UUID) bool {
	if actor.IsAdmin() {
		return true
	}
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, actor.ID).First(&member).Error
	return err == nil && member.Role == models.MemberRoleOwner
}

func (s *ProjectService) load(projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range legalProjectTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *ProjectService) toResponse(project *models.Project, withMembers bool) (*dto.ProjectResponse, error) {
	var taskCount, memberCount int64
	s.db.Model(&models.Task{}).Scopes(models.ForProject(project.ID)).Count(&taskCount)
	s.db.Model(&models.ProjectMember{}).Scopes(models.ForProject(project.ID)).Count(&memberCount)

	resp := &dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Category:    project.Category,
		Status:      project.Status,
		CreatedBy:   project.CreatedBy,
		TaskCount:   taskCount,
		MemberCount: memberCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if withMembers {
		var members []dto.MemberResponse
		err := s.db.Model(&models.ProjectMember{}).
			Select("project_members.user_id, users.name, users.email, project_members.role").
			Joins("JOIN users ON users.id = project_members.user_id").
			Where("project_members.project_id = ?", project.ID).
			Order("project_members.created_at").
			Scan(&members).Error
		if err != nil {
			return nil, err
		}
		resp.Members = members
	}

	return resp, nil
}
