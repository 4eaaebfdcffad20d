package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/services"
)

type SettingHandler struct {
	settingService *services.SettingService
}

func NewSettingHandler(settingService *services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// ListSettings returns all settings.
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetSetting returns one setting by key.
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingService.Get(c.Param("key"))
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, setting)
}

// PutSetting creates or overwrites a setting.
func (h *SettingHandler) PutSetting(c *gin.Context) {
	type SettingRequest struct {
		Value string `json:"value"`
	}

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	setting, err := h.settingService.Set(c.Param("key"), req.Value)
	if err != nil {
		if errors.Is(err, services.ErrSettingKeyRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, setting)
}
