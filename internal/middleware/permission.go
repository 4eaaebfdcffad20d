package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/constants"
	"github.com/hoangtm/task-admin-api/internal/database"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
	"github.com/hoangtm/task-admin-api/internal/models"
)

// RequirePermission loads the current user with role and permissions and
// rejects the request unless the role carries the given permission code.
func RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().
			Preload("Role").
			Preload("Role.Permissions").
			First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsActive {
			apierrors.Forbidden(c, "Account is disabled")
			c.Abort()
			return
		}

		for _, p := range user.Role.Permissions {
			if p.Code == code {
				c.Set(constants.ContextKeyUser, user)
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}
