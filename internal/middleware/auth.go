package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/models"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"gorm.io/gorm"
)

const (
	ContextUserID = "userId"
	ContextClaims = "claims"
	ContextUser   = "user"
)

// sessionToken reads the session cookie first, then a Bearer header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(config.AppConfig.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// resolveSession returns the active user behind the request, or an AppError.
func resolveSession(c *gin.Context) (*models.User, *utils.Claims, error) {
	token := sessionToken(c)
	if token == "" {
		return nil, nil, apperrors.Unauthorized("Authentication required")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("Invalid or expired session")
	}

	if database.IsTokenBlacklisted(c.Request.Context(), claims.GetJTI()) {
		return nil, nil, apperrors.Unauthorized("Session has been revoked")
	}

	// roles come from the database so revocations apply immediately
	var user models.User
	if err := database.DB.WithContext(c.Request.Context()).
		Preload("Roles").
		First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Unauthorized("User not found or inactive")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("User not found or inactive")
	}
	return &user, claims, nil
}

func setSession(c *gin.Context, user *models.User, claims *utils.Claims) {
	c.Set(ContextUserID, user.ID)
	c.Set(ContextClaims, claims)
	c.Set(ContextUser, user)
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := resolveSession(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setSession(c, user, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when one is valid and otherwise
// treats the request as anonymous.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, claims, err := resolveSession(c); err == nil {
			setSession(c, user, claims)
		}
		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentClaims returns the session claims set by AuthMiddleware, or nil.
func CurrentClaims(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentUserID returns "" for anonymous requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
