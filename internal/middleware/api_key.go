package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hoangtm/task-admin-api/internal/errors"
)

// RequireAPIKey guards the admin-automation surface with a static key in
// the x-api-key header. An empty configured key disables the surface.
func RequireAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			apierrors.Forbidden(c, "Admin API is not enabled")
			c.Abort()
			return
		}

		provided := c.GetHeader("x-api-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			apierrors.Unauthorized(c, "Invalid API key")
			c.Abort()
			return
		}

		c.Next()
	}
}
