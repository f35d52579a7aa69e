package seeds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetOrCreateAdmin returns the user with email, creating a SUPER_ADMIN with
// a credentials account when it does not exist.
func GetOrCreateAdmin(db *gorm.DB, email, name, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err == nil {
		logger.Info().Str("email", email).Msg("Admin user found")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user = models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	user.Profile = &models.Profile{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		DisplayName:       name,
		Position:          "Site administrator",
		PreferredLanguage: models.LanguageEN,
	}
	user.Roles = []models.UserRole{
		{ID: uuid.New().String(), UserID: user.ID, Role: models.RoleAdmin},
		{ID: uuid.New().String(), UserID: user.ID, Role: models.RoleSuperAdmin},
	}
	user.Accounts = []models.Account{{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		Provider:          models.ProviderCredentials,
		ProviderAccountID: email,
	}}

	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	logger.Info().Str("email", email).Msg("Admin user created")
	return user, nil
}

// PromoteUser grants role to the user with email. Granting a role the user
// already has is a no-op.
func PromoteUser(db *gorm.DB, email string, role models.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q", role)
	}

	var user models.User
	if err := db.Preload("Roles").Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user with email %s not found", email)
		}
		return err
	}
	if user.HasAnyRole(role) {
		logger.Info().Str("email", user.Email).Str("role", string(role)).Msg("User already has role")
		return nil
	}

	if err := db.Create(&models.UserRole{ID: uuid.New().String(), UserID: user.ID, Role: role}).Error; err != nil {
		return err
	}
	logger.Info().Str("email", user.Email).Str("role", string(role)).Msg("User promoted")
	return nil
}
