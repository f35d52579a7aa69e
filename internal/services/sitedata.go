package services

import (
	"context"
	"errors"

	"github.com/uplift-technology/uplift-backend/internal/models"
	"gorm.io/gorm"
)

// SiteData reads the published site state for the widget renderer.
type SiteData struct {
	DB *gorm.DB
}

func NewSiteData(db *gorm.DB) *SiteData {
	return &SiteData{DB: db}
}

// PublishedSection returns nil without error when the section has no live version.
func (s *SiteData) PublishedSection(ctx context.Context, pageSlug, sectionType string, lang models.Language) (*models.Content, error) {
	var content models.Content
	err := preloadOrdered(s.DB.WithContext(ctx)).
		Where("page_slug = ? AND section_type = ? AND language = ? AND status = ?",
			pageSlug, sectionType, lang, models.StatusPublished).
		First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *SiteData) PublishedSections(ctx context.Context, pageSlug string, lang models.Language) ([]models.Content, error) {
	return PublishedSections(ctx, s.DB, pageSlug, lang)
}

func (s *SiteData) ActiveProducts(ctx context.Context, lang models.Language, limit int) ([]models.Product, error) {
	products := []models.Product{}
	q := s.DB.WithContext(ctx).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Where("is_active = ? AND language = ?", true, lang).
		Order("sort_order ASC, name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&products).Error
	return products, err
}

func (s *SiteData) TechStack(ctx context.Context, pageSlug string, lang models.Language) ([]models.TechStackSection, error) {
	return TechStackSections(ctx, s.DB, pageSlug, lang)
}

// TechStackSections loads ordered sections with their technologies.
func TechStackSections(ctx context.Context, db *gorm.DB, pageSlug string, lang models.Language) ([]models.TechStackSection, error) {
	sections := []models.TechStackSection{}
	q := db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Items.Technology")
	if pageSlug != "" {
		q = q.Where("page_slug = ?", pageSlug)
	}
	if lang != "" {
		q = q.Where("language = ?", lang)
	}
	err := q.Order("sort_order ASC").Find(&sections).Error
	return sections, err
}
