package services

import (
	"errors"
	"testing"

	"github.com/workhive/workhive-backend/internal/dto"
	"github.com/workhive/workhive-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestListActive_ExcludesDeactivated(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)
	db.Model(bob).Update("is_active", false)

	users, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 active user, got %d", len(users))
	}
	if users[0].Name != "Ada" {
		t.Errorf("expected only Ada, got %s", users[0].Name)
	}
}

func TestUpdateProfile_PasswordRequiresCurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := createTestUser(t, db, "Ada", "ada@example.com", models.RoleEditor)

	newPassword := "brand-new-password"
	_, err := svc.UpdateProfile(user, &dto.UpdateProfileRequest{
		Password:        &newPassword,
		CurrentPassword: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.UpdateProfile(user, &dto.UpdateProfileRequest{
		Password:        &newPassword,
		CurrentPassword: testPassword,
	})
	if err != nil {
		t.Fatalf("password change failed: %v", err)
	}

	var fresh models.User
	if err := db.First(&fresh, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(fresh.Password), []byte(newPassword)); err != nil {
		t.Error("expected stored hash to match the new password")
	}
}

func TestDeactivate_AdminOnlyAndNotSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)

	if err := svc.Deactivate(bob, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := svc.Deactivate(admin, admin.ID); !errors.Is(err, ErrSelfDeactivation) {
		t.Errorf("expected ErrSelfDeactivation, got %v", err)
	}

	if err := svc.Deactivate(admin, bob.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	var fresh models.User
	if err := db.First(&fresh, "id = ?", bob.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if fresh.IsActive {
		t.Error("expected account deactivated")
	}
}

func TestDeactivate_RevokesRefreshTokens(t *testing.T) {
	db := newTestDB(t)
	userSvc := NewUserService(db)
	authSvc := NewAuthService(db, testConfig())
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)

	resp, err := authSvc.Login(&dto.LoginRequest{Email: "bob@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var bob models.User
	if err := db.First(&bob, "email = ?", "bob@example.com").Error; err != nil {
		t.Fatalf("failed to load bob: %v", err)
	}
	if err := userSvc.Deactivate(admin, bob.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	_, err = authSvc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after deactivation, got %v", err)
	}
}

func TestReactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	admin := createTestUser(t, db, "Ada", "ada@example.com", models.RoleAdmin)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleEditor)

	if err := svc.Deactivate(admin, bob.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if err := svc.Reactivate(admin, bob.ID); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}

	var fresh models.User
	if err := db.First(&fresh, "id = ?", bob.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !fresh.IsActive {
		t.Error("expected account reactivated")
	}
}
