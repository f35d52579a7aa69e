package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/services"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"gorm.io/gorm"
)

type TechnologyInput struct {
	Name       string `json:"name" binding:"required,max=100"`
	Slug       string `json:"slug" binding:"omitempty,slug,max=100"`
	Category   string `json:"category" binding:"max=50"`
	IconURL    string `json:"iconUrl" binding:"omitempty,max=1000"`
	WebsiteURL string `json:"websiteUrl" binding:"omitempty,url"`
}

type TechStackItemInput struct {
	TechnologyID string `json:"technologyId" binding:"required"`
	SortOrder    int    `json:"sortOrder"`
}

type TechStackInput struct {
	PageSlug  string               `json:"pageSlug" binding:"required,slug"`
	Language  models.Language      `json:"language" binding:"required,oneof=en th"`
	Title     string               `json:"title" binding:"max=200"`
	SortOrder int                  `json:"sortOrder"`
	Items     []TechStackItemInput `json:"items" binding:"dive"`
}

func technologySlug(input TechnologyInput) string {
	if input.Slug != "" {
		return input.Slug
	}
	if slug := utils.GenerateSlug(input.Name); slug != "" {
		return slug
	}
	return "tech-" + uuid.New().String()[:8]
}

func technologyTaken(tx *gorm.DB, name, slug, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Technology{}).Where("(LOWER(name) = LOWER(?) OR slug = ?)", name, slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func findTechnology(tx *gorm.DB, id string) (*models.Technology, error) {
	var tech models.Technology
	if err := tx.First(&tech, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Technology not found")
		}
		return nil, err
	}
	return &tech, nil
}

func invalidatePageCache(ctx context.Context, pageSlug string) {
	if err := database.InvalidatePage(ctx, pageSlug); err != nil {
		logger.Warn().Err(err).Str("page", pageSlug).Msg("Failed to invalidate page cache")
	}
}

// stackChanged drops every cached render, since a tech.stack widget may read
// another page's sections through its pageSlug prop.
func stackChanged(ctx context.Context) {
	if err := database.InvalidateAllPages(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate page cache")
	}
}

// ListTechnologies handles GET /api/technologies?category=
func ListTechnologies(c *gin.Context) {
	q := database.DB.WithContext(c.Request.Context())
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	techs := []models.Technology{}
	if err := q.Order("category ASC, name ASC").Find(&techs).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technologies": techs})
}

// GetTechnology handles GET /api/technologies/:id
func GetTechnology(c *gin.Context) {
	tech, err := findTechnology(database.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technology": tech})
}

// CreateTechnology handles POST /api/technologies
func CreateTechnology(c *gin.Context) {
	var input TechnologyInput
	if !bindJSON(c, &input) {
		return
	}

	tech := models.Technology{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Slug:       technologySlug(input),
		Category:   input.Category,
		IconURL:    input.IconURL,
		WebsiteURL: input.WebsiteURL,
	}

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		taken, err := technologyTaken(tx, tech.Name, tech.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("A technology with this name or slug already exists")
		}
		if err := tx.Create(&tech).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionCreateTechnology, "technology", tech.ID, tech.Name)
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"technology": tech})
}

// UpdateTechnology handles PUT /api/technologies/:id
func UpdateTechnology(c *gin.Context) {
	var input TechnologyInput
	if !bindJSON(c, &input) {
		return
	}

	var tech *models.Technology
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if tech, err = findTechnology(tx, c.Param("id")); err != nil {
			return err
		}
		slug := tech.Slug
		if input.Slug != "" {
			slug = input.Slug
		}
		taken, err := technologyTaken(tx, input.Name, slug, tech.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("A technology with this name or slug already exists")
		}
		if err := tx.Model(tech).Updates(map[string]interface{}{
			"name":        input.Name,
			"slug":        slug,
			"category":    input.Category,
			"icon_url":    input.IconURL,
			"website_url": input.WebsiteURL,
		}).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionUpdateTechnology, "technology", tech.ID, input.Name)
	})
	if err != nil {
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"technology": tech})
}

// DeleteTechnology handles DELETE /api/technologies/:id. The technology is
// also removed from every tech stack section.
func DeleteTechnology(c *gin.Context) {
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		tech, err := findTechnology(tx, c.Param("id"))
		if err != nil {
			return err
		}
		if err := tx.Where("technology_id = ?", tech.ID).Delete(&models.TechStackSectionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(tech).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionDeleteTechnology, "technology", tech.ID, tech.Name)
	})
	if err != nil {
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Technology deleted"})
}

// GetTechStack handles GET /api/tech-stack?pageSlug=&language=
func GetTechStack(c *gin.Context) {
	lang := middleware.RequestLanguage(c)
	sections, err := services.TechStackSections(c.Request.Context(), database.DB, c.Query("pageSlug"), lang)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "sections": sections})
}

func buildStackItems(tx *gorm.DB, sectionID string, in []TechStackItemInput) ([]models.TechStackSectionItem, error) {
	if len(in) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(in))
	for _, item := range in {
		ids = append(ids, item.TechnologyID)
	}
	var found int64
	if err := tx.Model(&models.Technology{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return nil, err
	}
	unique := make(map[string]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	if int(found) != len(unique) {
		return nil, apperrors.BadRequest("One or more technologies do not exist")
	}

	items := make([]models.TechStackSectionItem, 0, len(in))
	for i, item := range in {
		items = append(items, models.TechStackSectionItem{
			ID:           uuid.New().String(),
			SectionID:    sectionID,
			TechnologyID: item.TechnologyID,
			SortOrder:    orderOr(item.SortOrder, i),
		})
	}
	return items, nil
}

func loadStackSection(tx *gorm.DB, id string) (*models.TechStackSection, error) {
	var section models.TechStackSection
	err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Items.Technology").
		First(&section, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Tech stack section not found")
		}
		return nil, err
	}
	return &section, nil
}

// CreateTechStackSection handles POST /api/tech-stack
func CreateTechStackSection(c *gin.Context) {
	var input TechStackInput
	if !bindJSON(c, &input) {
		return
	}

	section := models.TechStackSection{
		ID:        uuid.New().String(),
		PageSlug:  input.PageSlug,
		Language:  input.Language,
		Title:     input.Title,
		SortOrder: input.SortOrder,
	}

	var created *models.TechStackSection
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		items, err := buildStackItems(tx, section.ID, input.Items)
		if err != nil {
			return err
		}
		if err := tx.Create(&section).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if created, err = loadStackSection(tx, section.ID); err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionUpdateTechStack, "tech_stack", section.ID, section.PageSlug)
	})
	if err != nil {
		c.Error(err)
		return
	}

	stackChanged(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"section": created})
}

// UpdateTechStackSection handles PUT /api/tech-stack/:id; items are replaced.
func UpdateTechStackSection(c *gin.Context) {
	var input TechStackInput
	if !bindJSON(c, &input) {
		return
	}

	var updated *models.TechStackSection
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		section, err := loadStackSection(tx, c.Param("id"))
		if err != nil {
			return err
		}

		items, err := buildStackItems(tx, section.ID, input.Items)
		if err != nil {
			return err
		}
		if err := tx.Model(section).Updates(map[string]interface{}{
			"page_slug":  input.PageSlug,
			"language":   input.Language,
			"title":      input.Title,
			"sort_order": input.SortOrder,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.TechStackSectionItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if updated, err = loadStackSection(tx, section.ID); err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionUpdateTechStack, "tech_stack", section.ID, input.PageSlug)
	})
	if err != nil {
		c.Error(err)
		return
	}

	stackChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"section": updated})
}

// DeleteTechStackSection handles DELETE /api/tech-stack/:id
func DeleteTechStackSection(c *gin.Context) {
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var section models.TechStackSection
		if err := tx.First(&section, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Tech stack section not found")
			}
			return err
		}
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.TechStackSectionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&section).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, getActorID(c), models.ActionDeleteTechStack, "tech_stack", section.ID, section.PageSlug)
	})
	if err != nil {
		c.Error(err)
		return
	}

	stackChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Tech stack section deleted"})
}
