package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrNotTaskCreator       = errors.New("only the task creator can perform this action")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrTaskNotEditable      = errors.New("task is in a terminal state and cannot be modified")
	ErrInvalidStatus        = errors.New("status cannot be set directly to this value")
	ErrNoDelegateTargets    = errors.New("at least one delegate target user is required")
	ErrTaskNotDelegatable   = errors.New("task cannot be delegated in its current state")
	ErrNoPendingDelegation  = errors.New("task has no pending delegation")
	ErrNotDelegationTarget  = errors.New("user is not the pending delegation target")
	ErrTaskNotCancellable   = errors.New("task cannot be cancelled in its current state")
	ErrReasonRequired       = errors.New("a reason is required")
	ErrTaskAlreadyDeleted   = errors.New("task is already deleted")
	ErrTaskNotDeleted       = errors.New("task is not deleted")
)

// taskPreloads is the relation set loaded for detail responses.
var taskPreloads = []string{
	"CreatedBy",
	"AssignedProvince",
	"UserAssignments", "UserAssignments.User",
	"DepartmentAssignments", "DepartmentAssignments.Department",
}

// TaskService handles task business logic: CRUD, the assignment resolver,
// the delegation workflow, cancellation and the recycle bin.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	notifier *NotificationService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, deptRepo repository.DepartmentRepository, notifier *NotificationService) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		deptRepo: deptRepo,
		notifier: notifier,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	IsPrivate   bool
	DueDate     *time.Time
	CreatorID   uint64
	Assignment  AssignmentUpdate
}

// UpdateTaskInput represents a partial update; nil fields are left unchanged
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
	IsPrivate    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ViewerID     uint64
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	Type         *models.TaskType
	DepartmentID *uint64
	AssignedToMe bool
	DueToday     bool
	Page         int
	PageSize     int
}

// CreateTask validates the assignment shape, derives the task type and
// creates the task together with its assignment rows.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	resolved, err := s.resolveAssignment(ResolvedAssignment{}, input.Assignment)
	if err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:              input.Title,
		Description:        input.Description,
		Status:             models.TaskStatusPending,
		Priority:           input.Priority,
		Type:               resolved.Type,
		IsPrivate:          input.IsPrivate,
		DueDate:            input.DueDate,
		CreatedByID:        input.CreatorID,
		AssignedProvinceID: resolved.ProvinceID,
	}

	if err := s.taskRepo.CreateWithAssignments(task, resolved.UserIDs, resolved.DepartmentIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifyAssigned(task, resolved.UserIDs, resolved.DepartmentIDs)

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// GetTaskForViewer returns a task if the viewer may see it. A task the
// viewer has no relationship with reads as not-found, never forbidden.
func (s *TaskService) GetTaskForViewer(taskID, viewerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	visible, err := s.canView(task, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) canView(task *models.Task, viewerID uint64) (bool, error) {
	if task.CreatedByID == viewerID {
		return true, nil
	}
	for _, a := range task.UserAssignments {
		if a.UserID == viewerID {
			return true, nil
		}
	}
	if len(task.DepartmentAssignments) > 0 {
		deptIDs := make([]uint64, len(task.DepartmentAssignments))
		for i, a := range task.DepartmentAssignments {
			deptIDs[i] = a.DepartmentID
		}
		member, err := s.deptRepo.IsMemberOfAny(viewerID, deptIDs)
		if err != nil {
			return false, fmt.Errorf("failed to verify department membership: %w", err)
		}
		if member {
			return true, nil
		}
	}
	return false, nil
}

// ListTasks returns the tasks the viewer created, is assigned to, or can see
// through department membership.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		ViewerID:     &input.ViewerID,
		Status:       input.Status,
		Priority:     input.Priority,
		Type:         input.Type,
		DepartmentID: input.DepartmentID,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}

	if input.AssignedToMe {
		filter.AssignedUserID = &input.ViewerID
	}
	if input.DueToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTask applies a partial update. Terminal tasks (delegated, cancelled,
// deleted) are immutable; assignment fields have their own endpoint.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findEditable(taskID)
	if err != nil {
		return nil, err
	}

	if task.CreatedByID != actorID {
		assigned, err := s.isAssigned(task.ID, actorID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, ErrTaskPermissionDenied
		}
	}

	statusChanged := false
	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil && *input.Status != task.Status {
		// Terminal statuses are reached through their own operations, not PATCH
		switch *input.Status {
		case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted:
			task.Status = *input.Status
			statusChanged = true
		default:
			return nil, ErrInvalidStatus
		}
	}
	if input.IsPrivate != nil {
		task.IsPrivate = *input.IsPrivate
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if statusChanged {
		s.notifyStatusChange(task, actorID)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// UpdateAssignments applies a partial assignment update through the
// resolver. The resolved shape must match the task's type: assignment edits
// change who is assigned, never what kind of task it is.
func (s *TaskService) UpdateAssignments(taskID, actorID uint64, update AssignmentUpdate) (*models.Task, error) {
	task, err := s.findEditable(taskID)
	if err != nil {
		return nil, err
	}

	if task.CreatedByID != actorID {
		return nil, ErrNotTaskCreator
	}

	currentUsers, err := s.taskRepo.AssignedUserIDs(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	currentDepts, err := s.taskRepo.AssignedDepartmentIDs(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	current := ResolvedAssignment{
		Type:          task.Type,
		UserIDs:       currentUsers,
		DepartmentIDs: currentDepts,
		ProvinceID:    task.AssignedProvinceID,
	}

	resolved, err := s.resolveAssignment(current, update)
	if err != nil {
		return nil, err
	}
	if resolved.Type != task.Type {
		return nil, ErrTaskTypeImmutable
	}

	if err := s.applyAssignmentRows(task.ID, resolved); err != nil {
		return nil, err
	}

	task.AssignedProvinceID = resolved.ProvinceID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	// Only additions are notified; removals are silent
	s.notifyAssigned(task, addedIDs(currentUsers, resolved.UserIDs), addedIDs(currentDepts, resolved.DepartmentIDs))

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// Delegate creates a successor task assigned to the targets and marks the
// source as delegated, in one transaction.
func (s *TaskService) Delegate(taskID, actorID uint64, targetUserIDs []uint64, reason string) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.Delegatable() {
		return nil, ErrTaskNotDelegatable
	}

	if task.CreatedByID != actorID {
		assigned, err := s.isAssigned(task.ID, actorID)
		if err != nil {
			return nil, err
		}
		if !assigned {
			return nil, ErrTaskPermissionDenied
		}
	}

	targets := uniqueUint64(targetUserIDs)
	if len(targets) == 0 {
		return nil, ErrNoDelegateTargets
	}

	count, err := s.userRepo.CountByIDs(targets)
	if err != nil {
		return nil, fmt.Errorf("failed to verify delegate targets: %w", err)
	}
	if int(count) != len(targets) {
		return nil, ErrInvalidAssignee
	}

	successor := &models.Task{
		Title:               task.Title,
		Description:         task.Description,
		Status:              models.TaskStatusPending,
		Priority:            task.Priority,
		Type:                models.TaskTypeUser,
		IsPrivate:           task.IsPrivate,
		DueDate:             task.DueDate,
		CreatedByID:         actorID,
		DelegatedByID:       &actorID,
		DelegatedFromTaskID: &task.ID,
	}

	if err := s.taskRepo.Delegate(task, successor, targets); err != nil {
		return nil, fmt.Errorf("failed to delegate task: %w", err)
	}

	if s.notifier != nil {
		message := fmt.Sprintf("Task %q has been delegated to you", task.Title)
		if reason != "" {
			message = fmt.Sprintf("%s: %s", message, reason)
		}
		for _, userID := range targets {
			s.notifier.Notify(userID, models.NotificationTaskDelegated, message, "task", &successor.ID)
		}
		if task.CreatedByID != actorID {
			notice := fmt.Sprintf("Your task %q has been delegated", task.Title)
			s.notifier.Notify(task.CreatedByID, models.NotificationTaskDelegationNotice, notice, "task", &task.ID)
		}
	}

	return s.taskRepo.FindByID(successor.ID, taskPreloads...)
}

// ProposeDelegation records a pending hand-off awaiting the target's answer.
func (s *TaskService) ProposeDelegation(taskID, actorID, targetUserID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.Delegatable() {
		return nil, ErrTaskNotDelegatable
	}
	if task.CreatedByID != actorID {
		return nil, ErrNotTaskCreator
	}

	count, err := s.userRepo.CountByIDs([]uint64{targetUserID})
	if err != nil {
		return nil, fmt.Errorf("failed to verify delegate target: %w", err)
	}
	if count != 1 {
		return nil, ErrInvalidAssignee
	}

	task.PendingDelegatedToID = &targetUserID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if s.notifier != nil {
		message := fmt.Sprintf("You have been offered the task %q", task.Title)
		s.notifier.Notify(targetUserID, models.NotificationTaskDelegationOffer, message, "task", &task.ID)
	}

	return task, nil
}

// RespondDelegation resolves a pending delegation offer. Accepting runs the
// delegation with the responder as the sole assignee; declining clears it.
func (s *TaskService) RespondDelegation(taskID, actorID uint64, accept bool, reason string) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.PendingDelegatedToID == nil {
		return nil, ErrNoPendingDelegation
	}
	if *task.PendingDelegatedToID != actorID {
		return nil, ErrNotDelegationTarget
	}

	if !accept {
		task.PendingDelegatedToID = nil
		if err := s.taskRepo.Update(task); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		if s.notifier != nil {
			message := fmt.Sprintf("The delegation offer for task %q was declined", task.Title)
			if reason != "" {
				message = fmt.Sprintf("%s: %s", message, reason)
			}
			s.notifier.Notify(task.CreatedByID, models.NotificationTaskDelegationNotice, message, "task", &task.ID)
		}
		return task, nil
	}

	return s.Delegate(task.ID, task.CreatedByID, []uint64{actorID}, reason)
}

// Cancel marks a pending or in-progress task as cancelled with an audit trail.
func (s *TaskService) Cancel(taskID, actorID uint64, reason string) (*models.Task, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case models.TaskStatusPending, models.TaskStatusInProgress:
	default:
		return nil, ErrTaskNotCancellable
	}

	if task.CreatedByID != actorID {
		return nil, ErrNotTaskCreator
	}

	now := time.Now()
	task.Status = models.TaskStatusCancelled
	task.CancelledAt = &now
	task.CancelledByID = &actorID
	task.CancellationReason = reason

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to cancel task: %w", err)
	}

	if s.notifier != nil {
		assignees, err := s.taskRepo.AssignedUserIDs(task.ID)
		if err == nil {
			message := fmt.Sprintf("Task %q has been cancelled: %s", task.Title, reason)
			for _, userID := range assignees {
				if userID == actorID {
					continue
				}
				s.notifier.Notify(userID, models.NotificationTaskCancelled, message, "task", &task.ID)
			}
		}
	}

	return task, nil
}

// SoftDelete moves a task into the recycle bin.
func (s *TaskService) SoftDelete(taskID, actorID uint64, reason string) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if task.IsDeleted {
		return ErrTaskAlreadyDeleted
	}
	if task.CreatedByID != actorID {
		return ErrNotTaskCreator
	}

	now := time.Now()
	task.IsDeleted = true
	task.Status = models.TaskStatusDeleted
	task.DeletedAt = &now
	task.DeletedByID = &actorID
	task.DeletionReason = reason

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Restore brings a soft-deleted task back as pending.
func (s *TaskService) Restore(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsDeleted {
		return nil, ErrTaskNotDeleted
	}
	if task.CreatedByID != actorID {
		return nil, ErrNotTaskCreator
	}

	task.IsDeleted = false
	task.Status = models.TaskStatusPending
	task.DeletedAt = nil
	task.DeletedByID = nil
	task.DeletionReason = ""

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to restore task: %w", err)
	}

	return task, nil
}

// ListDeleted returns the viewer's recycle bin.
func (s *TaskService) ListDeleted(viewerID uint64, page, pageSize int) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		CreatorID: &viewerID,
		Deleted:   true,
		Page:      page,
		PageSize:  pageSize,
	}
	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deleted tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findEditable(taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case models.TaskStatusDelegated, models.TaskStatusCancelled, models.TaskStatusDeleted:
		return nil, ErrTaskNotEditable
	}
	if task.IsDeleted {
		return nil, ErrTaskNotEditable
	}
	return task, nil
}

func (s *TaskService) isAssigned(taskID, userID uint64) (bool, error) {
	ids, err := s.taskRepo.AssignedUserIDs(taskID)
	if err != nil {
		return false, fmt.Errorf("failed to load assignments: %w", err)
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *TaskService) applyAssignmentRows(taskID uint64, resolved ResolvedAssignment) error {
	if err := s.taskRepo.ReplaceAssignees(taskID, resolved.UserIDs); err != nil {
		return fmt.Errorf("failed to write user assignments: %w", err)
	}
	if err := s.taskRepo.ReplaceDepartments(taskID, resolved.DepartmentIDs); err != nil {
		return fmt.Errorf("failed to write department assignments: %w", err)
	}
	return nil
}

// notifyAssigned dispatches assignment notifications to newly assigned users
// and, for department shapes, to the heads of newly assigned departments.
func (s *TaskService) notifyAssigned(task *models.Task, userIDs, departmentIDs []uint64) {
	if s.notifier == nil {
		return
	}

	message := fmt.Sprintf("You have been assigned the task %q", task.Title)
	for _, userID := range userIDs {
		if userID == task.CreatedByID {
			continue
		}
		s.notifier.Notify(userID, models.NotificationTaskAssigned, message, "task", &task.ID)
	}

	if len(departmentIDs) > 0 {
		headIDs, err := s.deptRepo.HeadUserIDs(departmentIDs)
		if err != nil {
			return
		}
		deptMessage := fmt.Sprintf("Your department has been assigned the task %q", task.Title)
		for _, userID := range headIDs {
			if userID == task.CreatedByID {
				continue
			}
			s.notifier.Notify(userID, models.NotificationTaskAssigned, deptMessage, "task", &task.ID)
		}
	}
}

func (s *TaskService) notifyStatusChange(task *models.Task, actorID uint64) {
	if s.notifier == nil {
		return
	}

	message := fmt.Sprintf("Task %q is now %s", task.Title, task.Status)

	if task.CreatedByID != actorID {
		s.notifier.Notify(task.CreatedByID, models.NotificationTaskStatusChanged, message, "task", &task.ID)
	}

	assignees, err := s.taskRepo.AssignedUserIDs(task.ID)
	if err != nil {
		return
	}
	for _, userID := range assignees {
		if userID == actorID || userID == task.CreatedByID {
			continue
		}
		s.notifier.Notify(userID, models.NotificationTaskStatusChanged, message, "task", &task.ID)
	}
}
