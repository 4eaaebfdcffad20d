package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"github.com/hoangtm/task-admin-api/internal/services"
	"github.com/hoangtm/task-admin-api/internal/utils"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivityLogs returns audit entries matching the query filters. This is
// the admin audit view and sits behind the API key surface.
func (h *ActivityHandler) ListActivityLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.ActivityLogFilter{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		Search:     c.Query("search"),
		Page:       params.Page,
		PageSize:   params.Limit,
	}
	if u := c.Query("user_id"); u != "" {
		userID, err := strconv.ParseUint(u, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		filter.UserID = &userID
	}
	if s := c.Query("status"); s != "" {
		status := models.ActivityStatus(s)
		filter.Status = &status
	}
	if f := c.Query("from"); f != "" {
		from, err := time.Parse(time.RFC3339, f)
		if err != nil {
			apierrors.BadRequest(c, "Invalid from timestamp")
			return
		}
		filter.From = &from
	}
	if t := c.Query("to"); t != "" {
		to, err := time.Parse(time.RFC3339, t)
		if err != nil {
			apierrors.BadRequest(c, "Invalid to timestamp")
			return
		}
		filter.To = &to
	}

	entries, total, err := h.activityService.List(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activity logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": entries,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
