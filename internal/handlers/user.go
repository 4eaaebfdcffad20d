package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/dto"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/services"
	"github.com/hoangtm/task-admin-api/internal/utils"
)

type UserHandler struct {
	userService     *services.UserService
	activityService *services.ActivityService
}

func NewUserHandler(userService *services.UserService, activityService *services.ActivityService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
	}
}

// ListUsers returns a page of user accounts. Requires user management
// permission.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	items := make([]dto.UserDTO, len(users))
	for i, user := range users {
		items[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": items,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetUser returns one user account.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "Invalid user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies an admin-side update to an account: role, active flag,
// email, or a password reset.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "Invalid user ID")
	if !ok {
		return
	}

	type AdminUpdateRequest struct {
		Email    *string `json:"email"`
		RoleID   *uint64 `json:"role_id"`
		IsActive *bool   `json:"is_active"`
		Password *string `json:"password"`
	}

	var req AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.AdminUpdateUser(userID, services.AdminUpdateUserInput{
		Email:    req.Email,
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if actorID, exists := middleware.GetUserID(c); exists {
		h.activityService.Record(&actorID, "user.update", "user", &userID, models.ActivityStatusSuccess, "")
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile applies a self-service update to the current user's profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ProfileRequest struct {
		Bio             *string                 `json:"bio"`
		AvatarURL       *string                 `json:"avatar_url"`
		Skills          *string                 `json:"skills"`
		SocialLinks     *string                 `json:"social_links"`
		Preferences     *string                 `json:"preferences"`
		TwoFactorMethod *models.TwoFactorMethod `json:"two_factor_method"`
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdateInput{
		Bio:             req.Bio,
		AvatarURL:       req.AvatarURL,
		Skills:          req.Skills,
		SocialLinks:     req.SocialLinks,
		Preferences:     req.Preferences,
		TwoFactorMethod: req.TwoFactorMethod,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"bio":               user.Bio,
		"avatar_url":        user.AvatarURL,
		"skills":            user.Skills,
		"social_links":      user.SocialLinks,
		"preferences":       user.Preferences,
		"two_factor_method": user.TwoFactorMethod,
	})
}

// ChangePassword changes the current user's password after verifying the
// current one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Current and new passwords are required")
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	h.activityService.Record(&userID, "user.change_password", "user", &userID, models.ActivityStatusSuccess, "")

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
