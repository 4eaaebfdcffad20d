package models

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ProvinceID  *uint64        `gorm:"index" json:"province_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	Members  []User    `gorm:"many2many:department_members" json:"members,omitempty"`
	Heads    []User    `gorm:"many2many:department_heads" json:"heads,omitempty"`
}

// DepartmentMember is the explicit join row behind the members relation.
// Membership mutations go through repository methods, not relation arrays.
type DepartmentMember struct {
	DepartmentID uint64    `gorm:"primarykey" json:"department_id"`
	UserID       uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DepartmentMember) TableName() string { return "department_members" }

// DepartmentHead is the explicit join row behind the heads relation.
type DepartmentHead struct {
	DepartmentID uint64    `gorm:"primarykey" json:"department_id"`
	UserID       uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DepartmentHead) TableName() string { return "department_heads" }
