package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusDelegated  TaskStatus = "delegated"
	TaskStatusDeleted    TaskStatus = "deleted"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskType discriminates which assignee shape is valid for a task.
// It is fixed at creation; assignment edits may change who is assigned
// within the same shape, never the shape itself.
type TaskType string

const (
	TaskTypePersonal           TaskType = "personal"
	TaskTypeUser               TaskType = "user"
	TaskTypeDepartment         TaskType = "department"
	TaskTypeProvinceDepartment TaskType = "province_department"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Type        TaskType     `gorm:"type:varchar(30);not null;default:'personal'" json:"type"`
	IsPrivate   bool         `gorm:"not null;default:false" json:"is_private"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedByID uint64       `gorm:"not null;index" json:"created_by_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Assignment target for province_department tasks; departments live in
	// the task_department_assignments join rows.
	AssignedProvinceID *uint64 `gorm:"index" json:"assigned_province_id"`

	// Delegation chain
	IsDelegated          bool    `gorm:"not null;default:false" json:"is_delegated"`
	DelegatedByID        *uint64 `json:"delegated_by_id"`
	DelegatedFromTaskID  *uint64 `gorm:"index" json:"delegated_from_task_id"`
	DelegatedToTaskID    *uint64 `gorm:"index" json:"delegated_to_task_id"`
	PendingDelegatedToID *uint64 `json:"pending_delegated_to_id"`

	// Soft delete audit (recoverable; distinct from gorm's DeletedAt so the
	// recycle bin can list and restore rows)
	IsDeleted      bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at"`
	DeletedByID    *uint64    `json:"deleted_by_id"`
	DeletionReason string     `gorm:"type:text" json:"deletion_reason"`

	// Cancellation audit
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancelledByID      *uint64    `json:"cancelled_by_id"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason"`

	// Relations
	CreatedBy             User                       `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssignedProvince      *Province                  `gorm:"foreignKey:AssignedProvinceID" json:"assigned_province,omitempty"`
	UserAssignments       []TaskUserAssignment       `gorm:"foreignKey:TaskID" json:"user_assignments,omitempty"`
	DepartmentAssignments []TaskDepartmentAssignment `gorm:"foreignKey:TaskID" json:"department_assignments,omitempty"`
}

// Delegatable reports whether the task can still be handed off.
func (t *Task) Delegatable() bool {
	switch t.Status {
	case TaskStatusPending, TaskStatusInProgress:
		return !t.IsDeleted
	default:
		return false
	}
}
