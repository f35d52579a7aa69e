package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// AdminRoles may use the CMS admin API.
var AdminRoles = []Role{RoleAdmin, RoleSuperAdmin}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

const ProviderCredentials = "credentials"

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	PasswordHash string `json:"-"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	Profile  *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Roles    []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Accounts []Account  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// RoleNames flattens the loaded roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Role))
	}
	return names
}

// HasAnyRole requires Roles to be preloaded.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have.Role == want {
				return true
			}
		}
	}
	return false
}

type Profile struct {
	ID                string    `gorm:"primaryKey;type:text" json:"id"`
	UserID            string    `gorm:"uniqueIndex;type:text;not null" json:"userId"`
	DisplayName       string    `json:"displayName"`
	Position          string    `json:"position"`
	Bio               string    `gorm:"type:text" json:"bio"`
	AvatarURL         string    `json:"avatarUrl"`
	PreferredLanguage Language  `gorm:"type:text;default:'en'" json:"preferredLanguage"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type UserRole struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_user_role;type:text;not null" json:"-"`
	Role      Role      `gorm:"uniqueIndex:idx_user_role;type:text;not null" json:"role"`
	CreatedAt time.Time `json:"-"`
}

// Account links a user to an identity provider.
type Account struct {
	ID                string    `gorm:"primaryKey;type:text" json:"id"`
	UserID            string    `gorm:"index;type:text;not null" json:"userId"`
	Provider          string    `gorm:"uniqueIndex:idx_account_provider;type:text;not null" json:"provider"`
	ProviderAccountID string    `gorm:"uniqueIndex:idx_account_provider;type:text;not null" json:"providerAccountId"`
	CreatedAt         time.Time `json:"createdAt"`
}
