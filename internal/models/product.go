package models

import "time"

type Product struct {
	ID            string         `gorm:"primaryKey;type:text" json:"id"`
	Slug          string         `gorm:"uniqueIndex;type:text;not null" json:"slug"`
	Language      Language       `gorm:"type:text;default:'en';index" json:"language"`
	Name          string         `gorm:"not null" json:"name"`
	Tagline       string         `json:"tagline"`
	Description   string         `gorm:"type:text" json:"description"`
	Features      StringList     `json:"features"`
	FeatureCount  int            `gorm:"default:0" json:"featureCount"`
	CoverImageURL string         `json:"coverImageUrl"`
	IsActive      bool           `gorm:"default:true;index" json:"isActive"`
	SortOrder     int            `gorm:"default:0" json:"sortOrder"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Sections []ProductSection `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sections"`
	Images   []Image          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

type ProductSection struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	ProductID string `gorm:"index;type:text;not null" json:"-"`
	Type      string `gorm:"type:text" json:"type"`
	Title     string `json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`

	Cards []ProductCard `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"cards"`
}

type ProductCard struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	SectionID   string `gorm:"index;type:text;not null" json:"-"`
	Title       string `json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`
}

// Image is media metadata; the bytes live in object storage.
type Image struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	ProductID  *string   `gorm:"index;type:text" json:"productId,omitempty"`
	URL        string    `gorm:"not null" json:"url"`
	StorageKey string    `json:"storageKey"`
	Alt        string    `json:"alt"`
	SortOrder  int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt  time.Time `json:"createdAt"`
}
