package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/dto"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/services"
)

type ProvinceHandler struct {
	orgService *services.OrgService
}

func NewProvinceHandler(orgService *services.OrgService) *ProvinceHandler {
	return &ProvinceHandler{orgService: orgService}
}

// ListProvinces lists all provinces.
func (h *ProvinceHandler) ListProvinces(c *gin.Context) {
	provinces, err := h.orgService.ListProvinces()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch provinces")
		return
	}

	items := make([]dto.ProvinceDTO, len(provinces))
	for i, p := range provinces {
		items[i] = dto.ToProvinceDTO(p)
	}
	c.JSON(http.StatusOK, gin.H{"provinces": items})
}

// GetProvince returns a province by ID.
func (h *ProvinceHandler) GetProvince(c *gin.Context) {
	provinceID, ok := pathID(c, "Invalid province ID")
	if !ok {
		return
	}

	province, err := h.orgService.GetProvince(provinceID)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProvinceDTO(*province))
}

// CreateProvince creates a province.
func (h *ProvinceHandler) CreateProvince(c *gin.Context) {
	type CreateProvinceRequest struct {
		Name string `json:"name" binding:"required"`
		Code string `json:"code"`
	}

	var req CreateProvinceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A province name is required")
		return
	}

	province, err := h.orgService.CreateProvince(req.Name, req.Code)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProvinceDTO(*province))
}

// UpdateProvince applies a partial update to a province.
func (h *ProvinceHandler) UpdateProvince(c *gin.Context) {
	provinceID, ok := pathID(c, "Invalid province ID")
	if !ok {
		return
	}

	type UpdateProvinceRequest struct {
		Name *string `json:"name"`
		Code *string `json:"code"`
	}

	var req UpdateProvinceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	province, err := h.orgService.UpdateProvince(provinceID, req.Name, req.Code)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProvinceDTO(*province))
}

// DeleteProvince removes a province.
func (h *ProvinceHandler) DeleteProvince(c *gin.Context) {
	provinceID, ok := pathID(c, "Invalid province ID")
	if !ok {
		return
	}

	if err := h.orgService.DeleteProvince(provinceID); err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Province deleted"})
}
