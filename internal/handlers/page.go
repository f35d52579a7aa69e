package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/services"
	"github.com/uplift-technology/uplift-backend/internal/widgets"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PageLayoutInput struct {
	Language models.Language        `json:"language" binding:"required,oneof=en th"`
	Title    string                 `json:"title" binding:"max=200"`
	Widgets  []widgets.WidgetConfig `json:"widgets" binding:"dive"`
}

// PageView is the rendered page returned to the front-end and cached.
type PageView struct {
	Slug       string            `json:"slug"`
	Language   models.Language   `json:"language"`
	Title      string            `json:"title"`
	Sections   []widgets.Section `json:"sections"`
	RenderedAt time.Time         `json:"renderedAt"`
}

func decodeWidgets(raw datatypes.JSON) ([]widgets.WidgetConfig, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var configs []widgets.WidgetConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// ListWidgets handles GET /api/widgets?category=&tag=
func ListWidgets(c *gin.Context) {
	registry := widgets.Default()
	c.JSON(http.StatusOK, gin.H{
		"widgets":    registry.Catalog(c.Query("category"), c.Query("tag")),
		"categories": registry.Categories(),
	})
}

// RenderPage handles GET /api/pages/:slug
func RenderPage(c *gin.Context) {
	slug := c.Param("slug")
	lang := middleware.RequestLanguage(c)
	ctx := c.Request.Context()
	cacheKey := database.PageCacheKey(slug, string(lang))

	var cached PageView
	if err := database.CacheGet(ctx, cacheKey, &cached); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, gin.H{"page": cached})
		return
	} else if !errors.Is(err, database.ErrCacheMiss) {
		logger.Warn().Err(err).Str("key", cacheKey).Msg("Page cache read failed")
	}

	var layout models.PageLayout
	if err := database.DB.WithContext(ctx).Where("slug = ? AND language = ?", slug, lang).First(&layout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(apperrors.NotFound("Page not found"))
			return
		}
		c.Error(err)
		return
	}

	configs, err := decodeWidgets(layout.Widgets)
	if err != nil {
		c.Error(err)
		return
	}

	rc := widgets.RenderContext{
		PageSlug: slug,
		Language: lang,
		Data:     services.NewSiteData(database.DB),
	}
	sections, err := widgets.Default().RenderPage(ctx, rc, configs)
	if err != nil {
		c.Error(err)
		return
	}

	view := PageView{
		Slug:       slug,
		Language:   lang,
		Title:      layout.Title,
		Sections:   sections,
		RenderedAt: time.Now(),
	}
	if err := database.CacheSet(ctx, cacheKey, view, config.AppConfig.PageCacheTTL); err != nil {
		logger.Warn().Err(err).Str("key", cacheKey).Msg("Page cache write failed")
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, gin.H{"page": view})
}

// ListPageLayouts handles GET /api/pages?language=
func ListPageLayouts(c *gin.Context) {
	q := database.DB.WithContext(c.Request.Context())
	if lang := models.Language(c.Query("language")); lang != "" {
		if !lang.IsValid() {
			c.Error(apperrors.BadRequest("language must be one of: en th"))
			return
		}
		q = q.Where("language = ?", lang)
	}
	layouts := []models.PageLayout{}
	if err := q.Order("slug ASC, language ASC").Find(&layouts).Error; err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": layouts})
}

// UpsertPageLayout handles PUT /api/pages/:slug. Every widget key must be registered.
func UpsertPageLayout(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsSlug(slug) {
		c.Error(apperrors.BadRequest("Invalid page slug"))
		return
	}
	var input PageLayoutInput
	if !bindJSON(c, &input) {
		return
	}
	if input.Widgets == nil {
		input.Widgets = []widgets.WidgetConfig{}
	}
	if err := widgets.Default().Validate(input.Widgets); err != nil {
		c.Error(apperrors.BadRequest(err.Error()))
		return
	}

	raw, err := json.Marshal(input.Widgets)
	if err != nil {
		c.Error(err)
		return
	}

	actorID := getActorID(c)
	var layout models.PageLayout
	status := http.StatusOK
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("slug = ? AND language = ?", slug, input.Language).First(&layout).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			layout = models.PageLayout{
				ID:        uuid.New().String(),
				Slug:      slug,
				Language:  input.Language,
				Title:     input.Title,
				Widgets:   datatypes.JSON(raw),
				UpdatedBy: actorID,
			}
			if err := tx.Create(&layout).Error; err != nil {
				return err
			}
			status = http.StatusCreated
		case err != nil:
			return err
		default:
			if err := tx.Model(&layout).Updates(map[string]interface{}{
				"title":      input.Title,
				"widgets":    datatypes.JSON(raw),
				"updated_by": actorID,
			}).Error; err != nil {
				return err
			}
		}
		return services.LogAudit(tx, actorID, models.ActionUpdatePage, "page", layout.ID, slug+"/"+string(input.Language))
	})
	if err != nil {
		c.Error(err)
		return
	}

	invalidatePageCache(c.Request.Context(), slug)
	resetSitemapCache()
	c.JSON(status, gin.H{"page": layout})
}
