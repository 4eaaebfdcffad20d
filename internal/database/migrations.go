package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates all tables.
func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Province{},
		&models.Department{},
		&models.DepartmentMember{},
		&models.DepartmentHead{},
		&models.Task{},
		&models.TaskUserAssignment{},
		&models.TaskDepartmentAssignment{},
		&models.Notification{},
		&models.Note{},
		&models.Setting{},
		&models.ActivityLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// SeedRoles inserts the default role and permission rows if they are missing.
// Leadership-tier roles get the delegation permission.
func SeedRoles(db *gorm.DB) error {
	permissions := []models.Permission{
		{Code: models.PermTaskCreate, Description: "Create tasks"},
		{Code: models.PermTaskDelegate, Description: "Delegate tasks to other users"},
		{Code: models.PermTaskDelete, Description: "Delete tasks"},
		{Code: models.PermUserManage, Description: "Manage user accounts"},
		{Code: models.PermOrgManage, Description: "Manage departments and provinces"},
	}

	byCode := make(map[string]*models.Permission, len(permissions))
	for i := range permissions {
		p := &permissions[i]
		err := db.Where("code = ?", p.Code).First(p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(p).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", p.Code, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up permission %s: %w", p.Code, err)
		}
		byCode[p.Code] = p
	}

	roles := []struct {
		name        string
		leadership  bool
		permissions []string
	}{
		{models.RoleNameAdmin, true, []string{models.PermTaskCreate, models.PermTaskDelegate, models.PermTaskDelete, models.PermUserManage, models.PermOrgManage}},
		{models.RoleNameManager, true, []string{models.PermTaskCreate, models.PermTaskDelegate, models.PermTaskDelete}},
		{models.RoleNameLeadership, true, []string{models.PermTaskCreate, models.PermTaskDelegate}},
		{models.RoleNameStaff, false, []string{models.PermTaskCreate}},
	}

	for _, r := range roles {
		var role models.Role
		err := db.Where("name = ?", r.name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{Name: r.name, IsLeadership: r.leadership}
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", r.name, err)
			}
			perms := make([]models.Permission, 0, len(r.permissions))
			for _, code := range r.permissions {
				perms = append(perms, *byCode[code])
			}
			if err := db.Model(&role).Association("Permissions").Append(&perms); err != nil {
				return fmt.Errorf("failed to attach permissions to role %s: %w", r.name, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", r.name, err)
		}
	}

	return nil
}
