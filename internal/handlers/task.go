package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/dto"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/services"
	"github.com/hoangtm/task-admin-api/internal/utils"
)

type TaskHandler struct {
	taskService     *services.TaskService
	activityService *services.ActivityService
}

func NewTaskHandler(taskService *services.TaskService, activityService *services.ActivityService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		activityService: activityService,
	}
}

// ListTasks returns the tasks visible to the current user, with filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		ViewerID:     userID,
		AssignedToMe: c.Query("assigned_to_me") == "true",
		DueToday:     c.Query("due_today") == "true",
		Page:         params.Page,
		PageSize:     params.Limit,
	}
	if s := c.Query("status"); s != "" {
		status := models.TaskStatus(s)
		input.Status = &status
	}
	if p := c.Query("priority"); p != "" {
		priority := models.TaskPriority(p)
		input.Priority = &priority
	}
	if t := c.Query("type"); t != "" {
		taskType := models.TaskType(t)
		input.Type = &taskType
	}
	if d := c.Query("department_id"); d != "" {
		deptID, err := strconv.ParseUint(d, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid department_id")
			return
		}
		input.DepartmentID = &deptID
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a task visible to the current user
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskForViewer(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task; the assignment fields determine its type
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title                   string              `json:"title" binding:"required"`
		Description             string              `json:"description"`
		Priority                models.TaskPriority `json:"priority"`
		IsPrivate               bool                `json:"is_private"`
		DueDate                 *time.Time          `json:"due_date"`
		AssignedToUserIDs       []uint64            `json:"assigned_to_user_ids"`
		AssignedToDepartmentIDs []uint64            `json:"assigned_to_department_ids"`
		AssignedToProvinceID    *uint64             `json:"assigned_to_province_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		IsPrivate:   req.IsPrivate,
		DueDate:     req.DueDate,
		CreatorID:   userID,
		Assignment: services.AssignmentUpdate{
			UserIDs:       &req.AssignedToUserIDs,
			DepartmentIDs: &req.AssignedToDepartmentIDs,
			ProvinceID:    req.AssignedToProvinceID,
			ProvinceSet:   true,
		},
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.activityService.Record(&userID, "task.create", "task", &task.ID, models.ActivityStatusSuccess, task.Title)

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; only provided fields change
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if title, ok := rawReq["title"].(string); ok {
		input.Title = &title
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if priority, ok := rawReq["priority"].(string); ok {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if status, ok := rawReq["status"].(string); ok {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if isPrivate, ok := rawReq["is_private"].(bool); ok {
		input.IsPrivate = &isPrivate
	}
	if _, ok := rawReq["due_date"]; ok {
		if rawReq["due_date"] == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := rawReq["due_date"].(string); ok {
			parsed, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return
			}
			input.DueDate = &parsed
		}
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateAssignments applies a partial assignment update. Absent fields keep
// their current value; an explicit empty array or null clears the field.
func (h *TaskHandler) UpdateAssignments(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var update services.AssignmentUpdate
	if raw, present := rawReq["assigned_to_user_ids"]; present {
		ids, ok := parseIDList(raw)
		if !ok {
			apierrors.BadRequest(c, "Invalid assigned_to_user_ids")
			return
		}
		update.UserIDs = &ids
	}
	if raw, present := rawReq["assigned_to_department_ids"]; present {
		ids, ok := parseIDList(raw)
		if !ok {
			apierrors.BadRequest(c, "Invalid assigned_to_department_ids")
			return
		}
		update.DepartmentIDs = &ids
	}
	if raw, present := rawReq["assigned_to_province_id"]; present {
		update.ProvinceSet = true
		if raw != nil {
			id, ok := parseID(raw)
			if !ok {
				apierrors.BadRequest(c, "Invalid assigned_to_province_id")
				return
			}
			update.ProvinceID = &id
		}
	}

	task, err := h.taskService.UpdateAssignments(taskID, userID, update)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DelegateTask hands the task off to new assignees via a successor task
func (h *TaskHandler) DelegateTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type DelegateRequest struct {
		NewAssigneeUserIDs []uint64 `json:"new_assignee_user_ids" binding:"required"`
		DelegationReason   string   `json:"delegation_reason"`
	}

	var req DelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	successor, err := h.taskService.Delegate(taskID, userID, req.NewAssigneeUserIDs, req.DelegationReason)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.activityService.Record(&userID, "task.delegate", "task", &taskID, models.ActivityStatusSuccess, req.DelegationReason)

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*successor))
}

// ProposeDelegation records a delegation offer awaiting the target's answer
func (h *TaskHandler) ProposeDelegation(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type ProposeRequest struct {
		TargetUserID uint64 `json:"target_user_id" binding:"required"`
	}

	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.ProposeDelegation(taskID, userID, req.TargetUserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// RespondDelegation accepts or declines a pending delegation offer
func (h *TaskHandler) RespondDelegation(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type RespondRequest struct {
		Accept bool   `json:"accept"`
		Reason string `json:"reason"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.RespondDelegation(taskID, userID, req.Accept, req.Reason)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CancelTask cancels a pending or in-progress task with a reason
func (h *TaskHandler) CancelTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type CancelRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A cancellation reason is required")
		return
	}

	task, err := h.taskService.Cancel(taskID, userID, req.Reason)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.activityService.Record(&userID, "task.cancel", "task", &taskID, models.ActivityStatusSuccess, req.Reason)

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft deletes a task into the recycle bin
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	type DeleteRequest struct {
		Reason string `json:"reason"`
	}

	var req DeleteRequest
	// Body is optional for deletes
	_ = c.ShouldBindJSON(&req)

	if err := h.taskService.SoftDelete(taskID, userID, req.Reason); err != nil {
		respondTaskError(c, err)
		return
	}

	h.activityService.Record(&userID, "task.delete", "task", &taskID, models.ActivityStatusSuccess, req.Reason)

	c.JSON(http.StatusOK, gin.H{"message": "Task moved to recycle bin"})
}

// ListDeletedTasks returns the current user's recycle bin
func (h *TaskHandler) ListDeletedTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListDeleted(userID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch deleted tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// RestoreTask restores a soft-deleted task
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	userID, taskID, ok := h.requestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.Restore(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.activityService.Record(&userID, "task.restore", "task", &taskID, models.ActivityStatusSuccess, "")

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func (h *TaskHandler) requestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func parseIDList(raw any) ([]uint64, bool) {
	if raw == nil {
		return []uint64{}, true
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	ids := make([]uint64, 0, len(items))
	for _, item := range items {
		id, ok := parseID(item)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func parseID(raw any) (uint64, bool) {
	num, ok := raw.(float64)
	if !ok || num < 0 || num != float64(uint64(num)) {
		return 0, false
	}
	return uint64(num), true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrNotDelegationTarget):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrNoDelegateTargets),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrAssignmentConflict),
		errors.Is(err, services.ErrProvinceWithoutDepartments),
		errors.Is(err, services.ErrProvinceWithUsers),
		errors.Is(err, services.ErrDepartmentsNotInProvince),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrInvalidDepartment),
		errors.Is(err, services.ErrTaskTypeImmutable):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotDelegatable),
		errors.Is(err, services.ErrTaskNotEditable),
		errors.Is(err, services.ErrTaskNotCancellable),
		errors.Is(err, services.ErrNoPendingDelegation),
		errors.Is(err, services.ErrTaskAlreadyDeleted),
		errors.Is(err, services.ErrTaskNotDeleted):
		apierrors.UnprocessableTransition(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
