package handlers

import (
	"context"
	"errors"
	"fmt"
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

type ProductCardInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=100"`
	SortOrder   int    `json:"sortOrder"`
}

type ProductSectionInput struct {
	Type      string             `json:"type" binding:"required,max=64"`
	Title     string             `json:"title" binding:"max=200"`
	Body      string             `json:"body"`
	SortOrder int                `json:"sortOrder"`
	Cards     []ProductCardInput `json:"cards" binding:"dive"`
}

type ImageInput struct {
	URL        string `json:"url" binding:"required,url"`
	StorageKey string `json:"storageKey"`
	Alt        string `json:"alt" binding:"max=255"`
	SortOrder  int    `json:"sortOrder"`
}

type ProductInput struct {
	Slug          string                `json:"slug" binding:"omitempty,slug,max=120"`
	Language      models.Language       `json:"language" binding:"omitempty,oneof=en th"`
	Name          string                `json:"name" binding:"required,max=200"`
	Tagline       string                `json:"tagline" binding:"max=255"`
	Description   string                `json:"description"`
	Features      []string              `json:"features" binding:"dive,required,max=255"`
	CoverImageURL string                `json:"coverImageUrl" binding:"omitempty,url"`
	IsActive      *bool                 `json:"isActive"`
	SortOrder     int                   `json:"sortOrder"`
	Sections      []ProductSectionInput `json:"sections" binding:"dive"`
	Images        []ImageInput          `json:"images" binding:"dive"`
}

type ProductPatch struct {
	IsActive  *bool `json:"isActive"`
	SortOrder *int  `json:"sortOrder"`
}

func preloadProduct(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Sections.Cards", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") })
}

// productSlug prefers the given slug, then the name, then a random suffix
// for names with no latin characters.
func productSlug(input ProductInput) string {
	if input.Slug != "" {
		return input.Slug
	}
	if slug := utils.GenerateSlug(input.Name); slug != "" {
		return slug
	}
	return "product-" + uuid.New().String()[:8]
}

func buildProductChildren(productID string, input ProductInput) ([]models.ProductSection, []models.Image) {
	sections := make([]models.ProductSection, 0, len(input.Sections))
	for i, s := range input.Sections {
		section := models.ProductSection{
			ID:        uuid.New().String(),
			ProductID: productID,
			Type:      s.Type,
			Title:     s.Title,
			Body:      s.Body,
			SortOrder: orderOr(s.SortOrder, i),
		}
		for j, card := range s.Cards {
			section.Cards = append(section.Cards, models.ProductCard{
				ID:          uuid.New().String(),
				SectionID:   section.ID,
				Title:       card.Title,
				Description: card.Description,
				Icon:        card.Icon,
				SortOrder:   orderOr(card.SortOrder, j),
			})
		}
		sections = append(sections, section)
	}

	images := make([]models.Image, 0, len(input.Images))
	for i, img := range input.Images {
		pid := productID
		images = append(images, models.Image{
			ID:         uuid.New().String(),
			ProductID:  &pid,
			URL:        img.URL,
			StorageKey: img.StorageKey,
			Alt:        img.Alt,
			SortOrder:  orderOr(img.SortOrder, i),
		})
	}
	return sections, images
}

func orderOr(order, index int) int {
	if order == 0 {
		return index
	}
	return order
}

func deleteProductChildren(tx *gorm.DB, productID string) error {
	sectionIDs := tx.Model(&models.ProductSection{}).Select("id").Where("product_id = ?", productID)
	if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.ProductCard{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSection{}).Error; err != nil {
		return err
	}
	return tx.Where("product_id = ?", productID).Delete(&models.Image{}).Error
}

func slugTaken(tx *gorm.DB, slug, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Product{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func catalogChanged(ctx context.Context) {
	if err := database.InvalidateAllPages(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate page cache")
	}
	resetSitemapCache()
}

// ListProducts handles GET /api/products. Admins may pass all=true to include
// inactive products.
func ListProducts(c *gin.Context) {
	q := database.DB.WithContext(c.Request.Context()).
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") })

	if !(c.Query("all") == "true" && middleware.IsAdmin(c)) {
		q = q.Where("is_active = ?", true)
	}
	if lang := models.Language(c.Query("language")); lang != "" {
		if !lang.IsValid() {
			c.Error(apperrors.BadRequest("language must be one of: en th"))
			return
		}
		q = q.Where("language = ?", lang)
	}

	products := []models.Product{}
	if err := q.Order("sort_order ASC, name ASC").Find(&products).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// GetProduct handles GET /api/products/:slug
func GetProduct(c *gin.Context) {
	var product models.Product
	q := preloadProduct(database.DB.WithContext(c.Request.Context())).Where("slug = ?", c.Param("slug"))
	if !middleware.IsAdmin(c) {
		q = q.Where("is_active = ?", true)
	}
	if err := q.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(apperrors.NotFound("Product not found"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct handles POST /api/products
func CreateProduct(c *gin.Context) {
	var input ProductInput
	if !bindJSON(c, &input) {
		return
	}

	active := input.IsActive == nil || *input.IsActive
	product := models.Product{
		ID:            uuid.New().String(),
		Slug:          productSlug(input),
		Language:      input.Language,
		Name:          input.Name,
		Tagline:       input.Tagline,
		Description:   input.Description,
		Features:      models.StringList(input.Features),
		FeatureCount:  len(input.Features),
		CoverImageURL: input.CoverImageURL,
		IsActive:      active,
		SortOrder:     input.SortOrder,
	}
	if product.Language == "" {
		product.Language = models.LanguageEN
	}
	if product.Features == nil {
		product.Features = models.StringList{}
	}
	product.Sections, product.Images = buildProductChildren(product.ID, input)

	actorID := getActorID(c)
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		taken, err := slugTaken(tx, product.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("A product with this slug already exists")
		}

		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		// gorm skips zero values for columns with a default
		if !active {
			if err := tx.Model(&product).Update("is_active", false).Error; err != nil {
				return err
			}
			product.IsActive = false
		}
		return services.LogAudit(tx, actorID, models.ActionCreateProduct, "product", product.ID, product.Slug)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = apperrors.Conflict("A product with this slug already exists")
		}
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PUT /api/products/:id. Scalars and nested sections,
// cards and images are replaced wholesale.
func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	var input ProductInput
	if !bindJSON(c, &input) {
		return
	}

	actorID := getActorID(c)
	var updated models.Product
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Product not found")
			}
			return err
		}

		slug := product.Slug
		if input.Slug != "" {
			slug = input.Slug
		}
		taken, err := slugTaken(tx, slug, product.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Conflict("A product with this slug already exists")
		}

		lang := input.Language
		if lang == "" {
			lang = product.Language
		}
		features := models.StringList(input.Features)
		if features == nil {
			features = models.StringList{}
		}
		updates := map[string]interface{}{
			"slug":            slug,
			"language":        lang,
			"name":            input.Name,
			"tagline":         input.Tagline,
			"description":     input.Description,
			"features":        features,
			"feature_count":   len(features),
			"cover_image_url": input.CoverImageURL,
			"sort_order":      input.SortOrder,
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}

		if err := deleteProductChildren(tx, product.ID); err != nil {
			return err
		}
		sections, images := buildProductChildren(product.ID, input)
		if len(sections) > 0 {
			if err := tx.Create(&sections).Error; err != nil {
				return err
			}
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}

		if err := preloadProduct(tx).First(&updated, "id = ?", product.ID).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, actorID, models.ActionUpdateProduct, "product", product.ID, slug)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = apperrors.Conflict("A product with this slug already exists")
		}
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

// PatchProduct handles PATCH /api/products/:id for visibility and ordering.
func PatchProduct(c *gin.Context) {
	var patch ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	updates := map[string]interface{}{}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.SortOrder != nil {
		updates["sort_order"] = *patch.SortOrder
	}
	if len(updates) == 0 {
		c.Error(apperrors.BadRequest("Nothing to update"))
		return
	}

	actorID := getActorID(c)
	var product models.Product
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Product not found")
			}
			return err
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, actorID, models.ActionUpdateProduct, "product", product.ID, fmt.Sprintf("%v", updates))
	})
	if err != nil {
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /api/products/:id
func DeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	actorID := getActorID(c)

	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Product not found")
			}
			return err
		}
		if err := deleteProductChildren(tx, product.ID); err != nil {
			return err
		}
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}
		return services.LogAudit(tx, actorID, models.ActionDeleteProduct, "product", product.ID, product.Slug)
	})
	if err != nil {
		c.Error(err)
		return
	}

	catalogChanged(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
