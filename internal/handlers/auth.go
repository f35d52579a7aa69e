package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	"github.com/uplift-technology/uplift-backend/internal/models"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// sessionUser is the public shape of the signed-in user.
type sessionUser struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Roles   []string        `json:"roles"`
	Profile *models.Profile `json:"profile,omitempty"`
}

func toSessionUser(u *models.User) sessionUser {
	return sessionUser{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Image:   u.Image,
		Roles:   u.RoleNames(),
		Profile: u.Profile,
	}
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.AppConfig.SessionCookieName, token, maxAge, "/", "", config.AppConfig.Env == "production", true)
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	var user models.User
	err := database.DB.WithContext(c.Request.Context()).
		Preload("Roles").
		Preload("Profile").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(input.Email))).
		First(&user).Error
	if err != nil || user.PasswordHash == "" {
		c.Error(apperrors.Unauthorized("Invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", user.Email).Msg("Failed login attempt")
		c.Error(apperrors.Unauthorized("Invalid email or password"))
		return
	}
	if !user.IsActive {
		c.Error(apperrors.Unauthorized("Account is disabled"))
		return
	}

	token, claims, err := utils.GenerateToken(user.ID, user.RoleNames())
	if err != nil {
		c.Error(err)
		return
	}

	setSessionCookie(c, token, int(time.Until(claims.ExpiresAtTime()).Seconds()))
	logger.Info().Str("user_id", user.ID).Msg("User signed in")

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": claims.ExpiresAtTime(),
		"user":      toSessionUser(&user),
	})
}

// Logout handles POST /api/auth/logout. It revokes the current session id
// when Redis is configured and always clears the cookie.
func Logout(c *gin.Context) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		ttl := time.Until(claims.ExpiresAtTime())
		if err := database.BlacklistToken(c.Request.Context(), claims.GetJTI(), ttl); err != nil {
			logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to revoke session")
		}
	}

	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GetSession handles GET /api/auth/session
func GetSession(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Error(apperrors.Unauthorized("Authentication required"))
		return
	}

	// AuthMiddleware only preloads roles
	var profile models.Profile
	if err := database.DB.WithContext(c.Request.Context()).Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
		user.Profile = &profile
	}

	resp := gin.H{"user": toSessionUser(user)}
	if claims := middleware.CurrentClaims(c); claims != nil {
		resp["expiresAt"] = claims.ExpiresAtTime()
	}
	c.JSON(http.StatusOK, resp)
}
