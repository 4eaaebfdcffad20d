package repository

import (
	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithAssignments atomically creates a task together with its
// assignment rows. A failed assignment write rolls the task row back.
func (r *GormTaskRepository) CreateWithAssignments(task *models.Task, userIDs, departmentIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if err := insertAssignees(tx, task.ID, userIDs); err != nil {
			return err
		}
		return insertDepartments(tx, task.ID, departmentIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.is_deleted = ?", filter.Deleted)

	if filter.ViewerID != nil {
		assignedSub := r.db.Model(&models.TaskUserAssignment{}).
			Select("1").
			Where("task_user_assignments.task_id = tasks.id").
			Where("task_user_assignments.user_id = ?", *filter.ViewerID).
			Where("task_user_assignments.deleted_at IS NULL")
		deptSub := r.db.Model(&models.TaskDepartmentAssignment{}).
			Select("1").
			Where("task_department_assignments.task_id = tasks.id").
			Where("task_department_assignments.deleted_at IS NULL").
			Where("task_department_assignments.department_id IN (?)",
				r.db.Model(&models.DepartmentMember{}).
					Select("department_id").
					Where("user_id = ?", *filter.ViewerID))
		query = query.Where("tasks.created_by_id = ? OR EXISTS (?) OR EXISTS (?)",
			*filter.ViewerID, assignedSub, deptSub)
	}
	if filter.CreatorID != nil {
		query = query.Where("tasks.created_by_id = ?", *filter.CreatorID)
	}
	if filter.AssignedUserID != nil {
		sub := r.db.Model(&models.TaskUserAssignment{}).
			Select("1").
			Where("task_user_assignments.task_id = tasks.id").
			Where("task_user_assignments.user_id = ?", *filter.AssignedUserID).
			Where("task_user_assignments.deleted_at IS NULL")
		query = query.Where("EXISTS (?)", sub)
	}
	if filter.DepartmentID != nil {
		sub := r.db.Model(&models.TaskDepartmentAssignment{}).
			Select("1").
			Where("task_department_assignments.task_id = tasks.id").
			Where("task_department_assignments.department_id = ?", *filter.DepartmentID).
			Where("task_department_assignments.deleted_at IS NULL")
		query = query.Where("EXISTS (?)", sub)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.Type != nil {
		query = query.Where("tasks.type = ?", *filter.Type)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("CreatedBy").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// ReplaceAssignees atomically replaces the user assignment set
func (r *GormTaskRepository) ReplaceAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).
			Delete(&models.TaskUserAssignment{}).Error; err != nil {
			return err
		}
		return insertAssignees(tx, taskID, userIDs)
	})
}

// ReplaceDepartments atomically replaces the department assignment set
func (r *GormTaskRepository) ReplaceDepartments(taskID uint64, departmentIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).
			Delete(&models.TaskDepartmentAssignment{}).Error; err != nil {
			return err
		}
		return insertDepartments(tx, taskID, departmentIDs)
	})
}

// AssignedUserIDs returns the current user assignment set
func (r *GormTaskRepository) AssignedUserIDs(taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.TaskUserAssignment{}).
		Where("task_id = ?", taskID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// AssignedDepartmentIDs returns the current department assignment set
func (r *GormTaskRepository) AssignedDepartmentIDs(taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.TaskDepartmentAssignment{}).
		Where("task_id = ?", taskID).
		Pluck("department_id", &ids).Error
	return ids, err
}

// Delegate atomically creates the successor task with its assignees and marks
// the source as delegated. A crash leaves either both rows or neither.
func (r *GormTaskRepository) Delegate(source *models.Task, successor *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(successor).Error; err != nil {
			return err
		}

		if err := insertAssignees(tx, successor.ID, assigneeIDs); err != nil {
			return err
		}

		source.Status = models.TaskStatusDelegated
		source.IsDelegated = true
		source.DelegatedToTaskID = &successor.ID
		source.PendingDelegatedToID = nil

		return tx.Save(source).Error
	})
}

func insertDepartments(tx *gorm.DB, taskID uint64, departmentIDs []uint64) error {
	if len(departmentIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskDepartmentAssignment, len(departmentIDs))
	for i, id := range departmentIDs {
		rows[i] = models.TaskDepartmentAssignment{TaskID: taskID, DepartmentID: id}
	}
	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "department_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&rows).Error
}

func insertAssignees(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.TaskUserAssignment, len(userIDs))
	for i, id := range userIDs {
		rows[i] = models.TaskUserAssignment{TaskID: taskID, UserID: id}
	}
	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&rows).Error
}
