package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/services"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ProfileInput struct {
	DisplayName       *string          `json:"displayName" binding:"omitempty,max=100"`
	Position          *string          `json:"position" binding:"omitempty,max=100"`
	Bio               *string          `json:"bio" binding:"omitempty,max=2000"`
	AvatarURL         *string          `json:"avatarUrl" binding:"omitempty,max=1000"`
	PreferredLanguage *models.Language `json:"preferredLanguage" binding:"omitempty,oneof=en th"`
}

type CreateUserInput struct {
	Email    string        `json:"email" binding:"required,email"`
	Name     string        `json:"name" binding:"required,max=100"`
	Password string        `json:"password" binding:"omitempty,min=8,max=72"`
	Roles    []models.Role `json:"roles" binding:"dive,oneof=USER ADMIN SUPER_ADMIN"`
	IsActive *bool         `json:"isActive"`
	Profile  *ProfileInput `json:"profile"`
}

type UpdateUserInput struct {
	Name     *string        `json:"name" binding:"omitempty,max=100"`
	Password *string        `json:"password" binding:"omitempty,min=8,max=72"`
	IsActive *bool          `json:"isActive"`
	Roles    *[]models.Role `json:"roles" binding:"omitempty,dive,oneof=USER ADMIN SUPER_ADMIN"`
	Profile  *ProfileInput  `json:"profile"`
}

func containsRole(roles []models.Role, want models.Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

func uniqueRoles(roles []models.Role) []models.Role {
	seen := make(map[models.Role]bool, len(roles))
	out := make([]models.Role, 0, len(roles))
	for _, r := range roles {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func buildRoles(userID string, roles []models.Role) []models.UserRole {
	out := make([]models.UserRole, 0, len(roles))
	for _, r := range uniqueRoles(roles) {
		out = append(out, models.UserRole{ID: uuid.New().String(), UserID: userID, Role: r})
	}
	return out
}

func applyProfile(p *models.Profile, in *ProfileInput) {
	if in == nil {
		return
	}
	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.Position != nil {
		p.Position = *in.Position
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	if in.PreferredLanguage != nil {
		p.PreferredLanguage = *in.PreferredLanguage
	}
}

func loadUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Roles").Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers handles GET /api/users?page=&limit=&search=
func ListUsers(c *gin.Context) {
	page, limit, offset := pagination(c, 20, 100)

	q := database.DB.WithContext(c.Request.Context()).Model(&models.User{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		term := utils.SanitizeSearchQuery(search)
		q = q.Where("LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(name) LIKE ? ESCAPE '\\'", term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	users := []models.User{}
	if err := q.Preload("Roles").Preload("Profile").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser handles GET /api/users/:id
func GetUser(c *gin.Context) {
	user, err := loadUser(database.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser handles POST /api/users. Only a SUPER_ADMIN may grant SUPER_ADMIN.
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if !bindJSON(c, &input) {
		return
	}

	actor := middleware.CurrentUser(c)
	roles := input.Roles
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	if containsRole(roles, models.RoleSuperAdmin) && (actor == nil || !actor.HasAnyRole(models.RoleSuperAdmin)) {
		c.Error(apperrors.Forbidden("Only a super admin can grant SUPER_ADMIN"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	active := input.IsActive == nil || *input.IsActive
	user := models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     input.Name,
		IsActive: active,
	}
	user.Roles = buildRoles(user.ID, roles)
	profile := models.Profile{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		DisplayName:       input.Name,
		PreferredLanguage: models.LanguageEN,
	}
	applyProfile(&profile, input.Profile)
	user.Profile = &profile

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to hash password")
			c.Error(apperrors.Internal("Failed to hash password"))
			return
		}
		user.PasswordHash = string(hash)
		user.Accounts = []models.Account{{
			ID:                uuid.New().String(),
			UserID:            user.ID,
			Provider:          models.ProviderCredentials,
			ProviderAccountID: email,
		}}
	}

	actorID := getActorID(c)
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		// soft-deleted users still hold their email
		var count int64
		if err := tx.Unscoped().Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("A user with this email already exists")
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// gorm skips zero values for columns with a default
		if !active {
			if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
				return err
			}
			user.IsActive = false
		}
		return services.LogAudit(tx, actorID, models.ActionCreateUser, "user", user.ID, email)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = apperrors.Conflict("A user with this email already exists")
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser handles PATCH /api/users/:id
func UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	var input UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	actor := middleware.CurrentUser(c)
	actorIsSuper := actor != nil && actor.HasAnyRole(models.RoleSuperAdmin)
	if input.Roles != nil && containsRole(*input.Roles, models.RoleSuperAdmin) && !actorIsSuper {
		c.Error(apperrors.Forbidden("Only a super admin can grant SUPER_ADMIN"))
		return
	}
	if input.IsActive != nil && !*input.IsActive && actor != nil && actor.ID == userID {
		c.Error(apperrors.BadRequest("You cannot deactivate your own account"))
		return
	}

	var updated *models.User
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		user, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		if user.HasAnyRole(models.RoleSuperAdmin) && !actorIsSuper {
			return apperrors.Forbidden("Only a super admin can modify a super admin")
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			updates["password_hash"] = string(hash)
			var accounts int64
			if err := tx.Model(&models.Account{}).
				Where("user_id = ? AND provider = ?", user.ID, models.ProviderCredentials).
				Count(&accounts).Error; err != nil {
				return err
			}
			if accounts == 0 {
				if err := tx.Create(&models.Account{
					ID:                uuid.New().String(),
					UserID:            user.ID,
					Provider:          models.ProviderCredentials,
					ProviderAccountID: user.Email,
				}).Error; err != nil {
					return err
				}
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(user).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.Roles != nil {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRole{}).Error; err != nil {
				return err
			}
			if roles := buildRoles(user.ID, *input.Roles); len(roles) > 0 {
				if err := tx.Create(&roles).Error; err != nil {
					return err
				}
			}
		}

		if input.Profile != nil {
			if user.Profile == nil {
				profile := models.Profile{ID: uuid.New().String(), UserID: user.ID, DisplayName: user.Name, PreferredLanguage: models.LanguageEN}
				applyProfile(&profile, input.Profile)
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			} else {
				applyProfile(user.Profile, input.Profile)
				if err := tx.Save(user.Profile).Error; err != nil {
					return err
				}
			}
		}

		if updated, err = loadUser(tx, user.ID); err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionUpdateUser, "user", user.ID, user.Email)
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// DeleteUser handles DELETE /api/users/:id. Users are soft deleted.
func DeleteUser(c *gin.Context) {
	userID := c.Param("id")
	actor := middleware.CurrentUser(c)
	if actor != nil && actor.ID == userID {
		c.Error(apperrors.BadRequest("You cannot delete your own account"))
		return
	}

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		user, err := loadUser(tx, userID)
		if err != nil {
			return err
		}
		if user.HasAnyRole(models.RoleSuperAdmin) && (actor == nil || !actor.HasAnyRole(models.RoleSuperAdmin)) {
			return apperrors.Forbidden("Only a super admin can delete a super admin")
		}
		if err := tx.Delete(user).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionDeleteUser, "user", user.ID, user.Email)
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
