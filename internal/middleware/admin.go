package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/models"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
)

// RequireRoles must run after AuthMiddleware. No session is 401, a session
// without any of the roles is 403.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, apperrors.Unauthorized("Authentication required"))
			return
		}
		if !user.HasAnyRole(roles...) {
			abortWithError(c, apperrors.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// AdminOnly restricts access to ADMIN and SUPER_ADMIN.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.AdminRoles...)
}

// IsAdmin reports whether the optional session belongs to an admin.
func IsAdmin(c *gin.Context) bool {
	user := CurrentUser(c)
	return user != nil && user.HasAnyRole(models.AdminRoles...)
}
