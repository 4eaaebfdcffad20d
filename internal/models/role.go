package models

import "time"

type Role struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	IsLeadership bool      `gorm:"not null;default:false" json:"is_leadership"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission codes follow a "resource:action" naming scheme, e.g. task:create.
type Permission struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Code        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Well-known role names seeded at startup.
const (
	RoleNameAdmin      = "Admin"
	RoleNameManager    = "Manager"
	RoleNameLeadership = "Leadership"
	RoleNameStaff      = "Staff"
)

// Permission codes used by the API guards.
const (
	PermTaskCreate   = "task:create"
	PermTaskDelegate = "task:delegate"
	PermTaskDelete   = "task:delete"
	PermUserManage   = "user:manage"
	PermOrgManage    = "org:manage"
)
