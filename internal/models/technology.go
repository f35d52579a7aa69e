package models

import "time"

type Technology struct {
	ID         string    `gorm:"primaryKey;type:text" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug       string    `gorm:"uniqueIndex;type:text;not null" json:"slug"`
	Category   string    `gorm:"index" json:"category"` // FRONTEND, BACKEND, CLOUD, DATA, MOBILE...
	IconURL    string    `json:"iconUrl"`
	WebsiteURL string    `json:"websiteUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type TechStackSection struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	PageSlug  string    `gorm:"index;type:text;not null" json:"pageSlug"`
	Language  Language  `gorm:"type:text;not null" json:"language"`
	Title     string    `json:"title"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []TechStackSectionItem `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"items"`
}

type TechStackSectionItem struct {
	ID           string `gorm:"primaryKey;type:text" json:"id"`
	SectionID    string `gorm:"index;type:text;not null" json:"-"`
	TechnologyID string `gorm:"index;type:text;not null" json:"technologyId"`
	SortOrder    int    `gorm:"default:0" json:"sortOrder"`

	Technology *Technology `gorm:"foreignKey:TechnologyID" json:"technology,omitempty"`
}
