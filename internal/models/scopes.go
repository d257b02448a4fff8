package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForProject scopes a query to one project.
func ForProject(projectID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("project_id = ?", projectID)
	}
}

// ActiveUsers scopes a user query to active accounts.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// VisibleProjects limits a project query to those the user belongs
// to. Admins see everything.
func VisibleProjects(user *User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if user.IsAdmin() {
			return db
		}
		return db.Where(
			"id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&ProjectMember{}).
				Select("project_id").
				Where("user_id = ?", user.ID),
		)
	}
}
