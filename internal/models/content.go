package models

import (
	"time"

	"gorm.io/datatypes"
)

type ContentStatus string

const (
	StatusDraft     ContentStatus = "DRAFT"
	StatusReview    ContentStatus = "REVIEW"
	StatusPublished ContentStatus = "PUBLISHED"
	StatusArchived  ContentStatus = "ARCHIVED"
)

func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Content is one localized section of a page. At most one row per
// (PageSlug, SectionType, Language) may be PUBLISHED.
type Content struct {
	ID          string        `gorm:"primaryKey;type:text" json:"id"`
	PageSlug    string        `gorm:"index:idx_content_locale;type:text;not null" json:"pageSlug"`
	SectionType string        `gorm:"index:idx_content_locale;type:text;not null" json:"sectionType"`
	Language    Language      `gorm:"index:idx_content_locale;type:text;not null" json:"language"`
	Title       string        `json:"title"`
	Status      ContentStatus `gorm:"type:text;default:'DRAFT';index" json:"status"`
	Version     int           `gorm:"default:1" json:"version"`
	SortOrder   int           `gorm:"default:0" json:"sortOrder"`
	PublishedAt *time.Time    `json:"publishedAt"`
	PublishedBy *string       `gorm:"type:text" json:"publishedBy"`
	CreatedBy   string        `gorm:"type:text" json:"createdBy"`
	UpdatedBy   string        `gorm:"type:text" json:"updatedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Fields  []ContentField  `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"fields"`
	Buttons []ContentButton `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"buttons"`
}

type FieldType string

const (
	FieldText     FieldType = "TEXT"
	FieldRichText FieldType = "RICH_TEXT"
	FieldImage    FieldType = "IMAGE"
	FieldLink     FieldType = "LINK"
)

type ContentField struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	ContentID string    `gorm:"index;type:text;not null" json:"-"`
	Key       string    `gorm:"type:text;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      FieldType `gorm:"type:text;default:'TEXT'" json:"type"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
}

type ContentButton struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	ContentID string `gorm:"index;type:text;not null" json:"-"`
	Label     string `json:"label"`
	Href      string `json:"href"`
	Variant   string `gorm:"default:'primary'" json:"variant"`
	SortOrder int    `gorm:"default:0" json:"sortOrder"`
}

// FieldMap returns the fields keyed by Key.
func (c *Content) FieldMap() map[string]string {
	out := make(map[string]string, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Key] = f.Value
	}
	return out
}

type HistoryAction string

const (
	HistoryCreate     HistoryAction = "CREATE"
	HistoryUpdate     HistoryAction = "UPDATE"
	HistoryTransition HistoryAction = "TRANSITION"
	HistoryArchive    HistoryAction = "ARCHIVE" // archived because a sibling was published
)

type ContentHistory struct {
	ID         string         `gorm:"primaryKey;type:text" json:"id"`
	ContentID  string         `gorm:"index;type:text;not null" json:"contentId"`
	Action     HistoryAction  `gorm:"type:text" json:"action"`
	FromStatus ContentStatus  `gorm:"type:text" json:"fromStatus"`
	ToStatus   ContentStatus  `gorm:"type:text" json:"toStatus"`
	Version    int            `json:"version"`
	Comment    string         `json:"comment"`
	Snapshot   datatypes.JSON `json:"snapshot,omitempty"`
	ActorID    string         `gorm:"type:text" json:"actorId"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}

func (ContentHistory) TableName() string {
	return "content_history"
}
