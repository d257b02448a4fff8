package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ListActive returns every active account, for assignee and mention
// pickers.
func (s *UserService) ListActive() ([]dto.UserResponse, error) {
	var users []models.User
	if err := s.db.Scopes(models.ActiveUsers).Order("name").Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = UserToResponse(&users[i])
	}
	return out, nil
}

// UpdateProfile changes the actor's own name and/or password. A
// password change requires the current password.
func (s *UserService) UpdateProfile(actor *models.User, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Password != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(actor.Password), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}

	if len(updates) > 0 {
		if err := s.db.Model(actor).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	resp := UserToResponse(actor)
	return &resp, nil
}

// Deactivate soft-disables an account and revokes its refresh
// tokens. Admin only; admins cannot deactivate themselves.
func (s *UserService) Deactivate(actor *models.User, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == userID {
		return ErrSelfDeactivation
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", userID).
			Update("revoked", true).Error
	})
}

// Reactivate re-enables a deactivated account. Admin only.
func (s *UserService) Reactivate(actor *models.User, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
