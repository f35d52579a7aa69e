package models

import (
	"time"

	"gorm.io/datatypes"
)

// PageLayout stores the ordered widget configuration of a page.
type PageLayout struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	Slug      string         `gorm:"uniqueIndex:idx_page_locale;type:text;not null" json:"slug"`
	Language  Language       `gorm:"uniqueIndex:idx_page_locale;type:text;not null" json:"language"`
	Title     string         `json:"title"`
	Widgets   datatypes.JSON `json:"widgets"`
	UpdatedBy string         `gorm:"type:text" json:"updatedBy"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
