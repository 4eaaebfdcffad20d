package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/dto"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/services"
)

type DepartmentHandler struct {
	orgService      *services.OrgService
	activityService *services.ActivityService
}

func NewDepartmentHandler(orgService *services.OrgService, activityService *services.ActivityService) *DepartmentHandler {
	return &DepartmentHandler{
		orgService:      orgService,
		activityService: activityService,
	}
}

// ListDepartments lists departments, optionally filtered by province_id.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var provinceID *uint64
	if p := c.Query("province_id"); p != "" {
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid province_id")
			return
		}
		provinceID = &id
	}

	departments, err := h.orgService.ListDepartments(provinceID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch departments")
		return
	}

	items := make([]dto.DepartmentDTO, len(departments))
	for i, dept := range departments {
		items[i] = dto.ToDepartmentDTO(dept)
	}
	c.JSON(http.StatusOK, gin.H{"departments": items})
}

// GetDepartment returns a department with its members and heads.
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	deptID, ok := pathID(c, "Invalid department ID")
	if !ok {
		return
	}

	dept, err := h.orgService.GetDepartment(deptID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	members := make([]dto.UserDTO, len(dept.Members))
	for i, m := range dept.Members {
		members[i] = dto.ToUserDTO(m)
	}
	heads := make([]dto.UserDTO, len(dept.Heads))
	for i, head := range dept.Heads {
		heads[i] = dto.ToUserDTO(head)
	}

	resp := gin.H{
		"id":          dept.ID,
		"name":        dept.Name,
		"description": dept.Description,
		"province_id": dept.ProvinceID,
		"members":     members,
		"heads":       heads,
	}
	if dept.Province != nil {
		resp["province"] = dto.ToProvinceDTO(*dept.Province)
	}
	c.JSON(http.StatusOK, resp)
}

// CreateDepartment creates a department.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	type CreateDepartmentRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		ProvinceID  *uint64 `json:"province_id"`
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A department name is required")
		return
	}

	dept, err := h.orgService.CreateDepartment(req.Name, req.Description, req.ProvinceID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	h.recordActivity(c, "department.create", dept.ID, dept.Name)

	c.JSON(http.StatusCreated, dto.ToDepartmentDTO(*dept))
}

// UpdateDepartment applies a partial update to a department.
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	deptID, ok := pathID(c, "Invalid department ID")
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var name, description *string
	if v, ok := rawReq["name"].(string); ok {
		name = &v
	}
	if v, ok := rawReq["description"].(string); ok {
		description = &v
	}

	var provinceID *uint64
	provinceSet := false
	if raw, present := rawReq["province_id"]; present {
		provinceSet = true
		if raw != nil {
			id, ok := parseID(raw)
			if !ok {
				apierrors.BadRequest(c, "Invalid province_id")
				return
			}
			provinceID = &id
		}
	}

	dept, err := h.orgService.UpdateDepartment(deptID, name, description, provinceID, provinceSet)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentDTO(*dept))
}

// DeleteDepartment removes a department.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	deptID, ok := pathID(c, "Invalid department ID")
	if !ok {
		return
	}

	if err := h.orgService.DeleteDepartment(deptID); err != nil {
		respondOrgError(c, err)
		return
	}

	h.recordActivity(c, "department.delete", deptID, "")

	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

// AddMember adds a user to the department.
func (h *DepartmentHandler) AddMember(c *gin.Context) {
	h.changeMembership(c, "department.member.add", h.orgService.AddMember)
}

// RemoveMember removes a user from the department.
func (h *DepartmentHandler) RemoveMember(c *gin.Context) {
	h.changeMembership(c, "department.member.remove", h.orgService.RemoveMember)
}

// AddHead designates a user as a department head.
func (h *DepartmentHandler) AddHead(c *gin.Context) {
	h.changeMembership(c, "department.head.add", h.orgService.AddHead)
}

// RemoveHead removes a user from the department heads.
func (h *DepartmentHandler) RemoveHead(c *gin.Context) {
	h.changeMembership(c, "department.head.remove", h.orgService.RemoveHead)
}

func (h *DepartmentHandler) changeMembership(c *gin.Context, action string, apply func(uint64, uint64) error) {
	deptID, ok := pathID(c, "Invalid department ID")
	if !ok {
		return
	}

	type MembershipRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "user_id is required")
		return
	}

	if err := apply(deptID, req.UserID); err != nil {
		respondOrgError(c, err)
		return
	}

	h.recordActivity(c, action, deptID, strconv.FormatUint(req.UserID, 10))

	c.JSON(http.StatusOK, gin.H{"message": "Department membership updated"})
}

func (h *DepartmentHandler) recordActivity(c *gin.Context, action string, targetID uint64, detail string) {
	if userID, exists := middleware.GetUserID(c); exists {
		h.activityService.Record(&userID, action, "department", &targetID, models.ActivityStatusSuccess, detail)
	}
}

func pathID(c *gin.Context, message string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, message)
		return 0, false
	}
	return id, true
}

func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDepartmentNotFound),
		errors.Is(err, services.ErrProvinceNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
