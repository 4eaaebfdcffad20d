package repository

import (
	"time"

	"github.com/hoangtm/task-admin-api/internal/models"
)

// TaskRepository defines the interface for task data access.
// Assignment rows are mutated only through the explicit methods here so the
// resolver invariant is enforced in one place.
type TaskRepository interface {
	// CreateWithAssignments atomically creates a task together with its
	// assignment rows
	CreateWithAssignments(task *models.Task, userIDs, departmentIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// ReplaceAssignees atomically replaces the user assignment set
	ReplaceAssignees(taskID uint64, userIDs []uint64) error

	// ReplaceDepartments atomically replaces the department assignment set
	ReplaceDepartments(taskID uint64, departmentIDs []uint64) error

	// AssignedUserIDs returns the current user assignment set
	AssignedUserIDs(taskID uint64) ([]uint64, error)

	// AssignedDepartmentIDs returns the current department assignment set
	AssignedDepartmentIDs(taskID uint64) ([]uint64, error)

	// Delegate atomically creates the successor task with its assignees and
	// marks the source as delegated
	Delegate(source *models.Task, successor *models.Task, assigneeIDs []uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ViewerID       *uint64 // restrict to tasks the viewer created or is assigned
	CreatorID      *uint64
	AssignedUserID *uint64
	DepartmentID   *uint64
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	Type           *models.TaskType
	Deleted        bool // recycle bin view
	DueDateFrom    *time.Time
	DueDateTo      *time.Time
	Page           int
	PageSize       int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64, preload ...string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(page, pageSize int) ([]models.User, int64, error)
	Update(user *models.User) error

	// CountByIDs counts how many of the given user IDs exist and are active
	CountByIDs(userIDs []uint64) (int64, error)
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	Create(dept *models.Department) error
	FindByID(id uint64, preload ...string) (*models.Department, error)
	List(provinceID *uint64) ([]models.Department, error)
	Update(dept *models.Department) error
	Delete(id uint64) error

	AddMember(departmentID, userID uint64) error
	RemoveMember(departmentID, userID uint64) error
	AddHead(departmentID, userID uint64) error
	RemoveHead(departmentID, userID uint64) error

	// HeadUserIDs returns the head users of the given departments
	HeadUserIDs(departmentIDs []uint64) ([]uint64, error)

	// IsMemberOfAny reports whether the user is a member or head of any of
	// the given departments
	IsMemberOfAny(userID uint64, departmentIDs []uint64) (bool, error)

	// CountInProvince counts how many of the given departments belong to the province
	CountInProvince(departmentIDs []uint64, provinceID uint64) (int64, error)

	// CountByIDs counts how many of the given department IDs exist
	CountByIDs(departmentIDs []uint64) (int64, error)
}

// ProvinceRepository defines the interface for province data access
type ProvinceRepository interface {
	Create(province *models.Province) error
	FindByID(id uint64, preload ...string) (*models.Province, error)
	List() ([]models.Province, error)
	Update(province *models.Province) error
	Delete(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(n *models.Notification) error

	// ListByUser returns a page of the user's notifications, newest first
	ListByUser(userID uint64, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error)

	// FindByIDForUser scopes the lookup by owner; a wrong owner is a miss
	FindByIDForUser(id, userID uint64) (*models.Notification, error)

	// MarkRead sets is_read; already-read rows are left untouched
	MarkRead(id, userID uint64) error

	// MarkAllRead marks every unread notification of the user as read
	MarkAllRead(userID uint64) error
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(note *models.Note) error

	// FindByIDForUser scopes the lookup by owner; a wrong owner is a miss
	FindByIDForUser(id, userID uint64) (*models.Note, error)

	ListByUser(userID uint64, page, pageSize int) ([]models.Note, int64, error)
	Update(note *models.Note) error
	DeleteForUser(id, userID uint64) error
}

// ActivityLogFilter holds filtering options for the admin audit view
type ActivityLogFilter struct {
	UserID     *uint64
	Action     string
	TargetType string
	Status     *models.ActivityStatus
	Search     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// ActivityLogRepository defines the interface for audit log data access
type ActivityLogRepository interface {
	Create(entry *models.ActivityLog) error
	List(filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

// SettingRepository defines the interface for settings data access
type SettingRepository interface {
	Upsert(key, value string) (*models.Setting, error)
	FindByKey(key string) (*models.Setting, error)
	List() ([]models.Setting, error)
}
