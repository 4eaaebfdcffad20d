package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/dto"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/services"
)

type AuthHandler struct {
	authService     *services.AuthService
	activityService *services.ActivityService
}

func NewAuthHandler(authService *services.AuthService, activityService *services.ActivityService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		activityService: activityService,
	}
}

// Login authenticates with username and password. Accounts with two-factor
// enabled get a challenge to answer instead of a token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Username and password are required")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.activityService.Record(nil, "auth.login", "user", nil, models.ActivityStatusFailure, req.Username)
		respondAuthError(c, err)
		return
	}

	if result.TwoFactorRequired {
		c.JSON(http.StatusOK, gin.H{
			"two_factor_required": true,
			"challenge_id":        result.ChallengeID,
		})
		return
	}

	h.activityService.Record(&result.User.ID, "auth.login", "user", &result.User.ID, models.ActivityStatusSuccess, "")

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  dto.ToUserDTO(*result.User),
	})
}

// VerifyTwoFactor answers a pending two-factor challenge.
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	type VerifyRequest struct {
		ChallengeID string `json:"challenge_id" binding:"required"`
		Code        string `json:"code" binding:"required"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "challenge_id and code are required")
		return
	}

	result, err := h.authService.VerifyTwoFactor(req.ChallengeID, req.Code)
	if err != nil {
		h.activityService.Record(nil, "auth.two_factor", "user", nil, models.ActivityStatusFailure, "")
		respondAuthError(c, err)
		return
	}

	h.activityService.Record(&result.User.ID, "auth.two_factor", "user", &result.User.ID, models.ActivityStatusSuccess, "")

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  dto.ToUserDTO(*result.User),
	})
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		RoleID   uint64 `json:"role_id" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid registration data")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"email":             user.Email,
		"role":              user.Role.Name,
		"is_active":         user.IsActive,
		"two_factor_method": user.TwoFactorMethod,
		"bio":               user.Bio,
		"avatar_url":        user.AvatarURL,
		"skills":            user.Skills,
		"social_links":      user.SocialLinks,
		"preferences":       user.Preferences,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))
	case errors.Is(err, services.ErrAccountDisabled):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAccountLocked):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodeAccountLocked, err.Error()))
	case errors.Is(err, services.ErrChallengeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTwoFactorCode):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, err.Error()))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
