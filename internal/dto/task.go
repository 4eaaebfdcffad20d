package dto

import (
	"time"

	"github.com/hoangtm/task-admin-api/internal/models"
)

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	ProvinceID *uint64 `json:"province_id,omitempty"`
}

// ProvinceDTO represents a province in API responses
type ProvinceDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Type        models.TaskType     `json:"type"`
	IsPrivate   bool                `json:"is_private"`
	DueDate     *time.Time          `json:"due_date"`
	CreatedByID uint64              `json:"created_by_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	AssignedUsers       []UserDTO       `json:"assigned_users,omitempty"`
	AssignedDepartments []DepartmentDTO `json:"assigned_departments,omitempty"`
	AssignedProvince    *ProvinceDTO    `json:"assigned_province,omitempty"`

	IsDelegated          bool    `json:"is_delegated"`
	DelegatedByID        *uint64 `json:"delegated_by_id,omitempty"`
	DelegatedFromTaskID  *uint64 `json:"delegated_from_task_id,omitempty"`
	DelegatedToTaskID    *uint64 `json:"delegated_to_task_id,omitempty"`
	PendingDelegatedToID *uint64 `json:"pending_delegated_to_id,omitempty"`

	IsDeleted          bool       `json:"is_deleted"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
	DeletionReason     string     `json:"deletion_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	CreatedBy *UserDTO `json:"created_by,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToDepartmentDTO converts a Department model to DepartmentDTO
func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:         dept.ID,
		Name:       dept.Name,
		ProvinceID: dept.ProvinceID,
	}
}

// ToProvinceDTO converts a Province model to ProvinceDTO
func ToProvinceDTO(p models.Province) ProvinceDTO {
	return ProvinceDTO{
		ID:   p.ID,
		Name: p.Name,
		Code: p.Code,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                   task.ID,
		Title:                task.Title,
		Description:          task.Description,
		Status:               task.Status,
		Priority:             task.Priority,
		Type:                 task.Type,
		IsPrivate:            task.IsPrivate,
		DueDate:              task.DueDate,
		CreatedByID:          task.CreatedByID,
		CreatedAt:            task.CreatedAt,
		UpdatedAt:            task.UpdatedAt,
		IsDelegated:          task.IsDelegated,
		DelegatedByID:        task.DelegatedByID,
		DelegatedFromTaskID:  task.DelegatedFromTaskID,
		DelegatedToTaskID:    task.DelegatedToTaskID,
		PendingDelegatedToID: task.PendingDelegatedToID,
		IsDeleted:            task.IsDeleted,
		DeletedAt:            task.DeletedAt,
		DeletionReason:       task.DeletionReason,
		CancelledAt:          task.CancelledAt,
		CancellationReason:   task.CancellationReason,
	}

	// Include relations if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}
	if task.AssignedProvince != nil && task.AssignedProvince.ID != 0 {
		province := ToProvinceDTO(*task.AssignedProvince)
		dto.AssignedProvince = &province
	}
	for _, a := range task.UserAssignments {
		if a.User.ID != 0 {
			dto.AssignedUsers = append(dto.AssignedUsers, ToUserDTO(a.User))
		}
	}
	for _, a := range task.DepartmentAssignments {
		if a.Department.ID != 0 {
			dto.AssignedDepartments = append(dto.AssignedDepartments, ToDepartmentDTO(a.Department))
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
