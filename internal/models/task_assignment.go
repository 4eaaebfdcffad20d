package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskUserAssignment links a user-type task to an assigned user.
type TaskUserAssignment struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TaskDepartmentAssignment links a department or province_department task
// to an assigned department.
type TaskDepartmentAssignment struct {
	TaskID       uint64         `gorm:"primarykey" json:"task_id"`
	DepartmentID uint64         `gorm:"primarykey" json:"department_id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task       Task       `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}
