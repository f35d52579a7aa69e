package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/middleware"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/services"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
)

// ListContent handles GET /api/content
func ListContent(c *gin.Context) {
	filter := services.ContentFilter{
		PageSlug:    c.Query("pageSlug"),
		SectionType: c.Query("sectionType"),
		Language:    models.Language(c.Query("language")),
		Status:      models.ContentStatus(c.Query("status")),
	}
	if filter.Language != "" && !filter.Language.IsValid() {
		c.Error(apperrors.BadRequest("language must be one of: en th"))
		return
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		c.Error(apperrors.BadRequest("status must be one of: DRAFT REVIEW PUBLISHED ARCHIVED"))
		return
	}

	contents, err := services.ListContent(c.Request.Context(), database.DB, filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contents": contents, "total": len(contents)})
}

// GetContent handles GET /api/content/:id
func GetContent(c *gin.Context) {
	content, err := services.GetContent(c.Request.Context(), database.DB, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// GetContentHistory handles GET /api/content/:id/history
func GetContentHistory(c *gin.Context) {
	history, err := services.ContentHistory(c.Request.Context(), database.DB, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// CreateContent handles POST /api/content. New sections start as DRAFT.
func CreateContent(c *gin.Context) {
	var input services.ContentInput
	if !bindJSON(c, &input) {
		return
	}

	content, err := services.CreateContent(c.Request.Context(), database.DB, input, getActorID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"content": content})
}

// TransitionContent handles PUT /api/content with {id, status, comment}.
func TransitionContent(c *gin.Context) {
	var input services.TransitionInput
	if !bindJSON(c, &input) {
		return
	}
	input.ActorID = getActorID(c)

	content, err := services.TransitionContent(c.Request.Context(), database.DB, input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// UpdateContent handles PATCH /api/content/:id
func UpdateContent(c *gin.Context) {
	var patch services.ContentPatch
	if !bindJSON(c, &patch) {
		return
	}

	content, err := services.UpdateContent(c.Request.Context(), database.DB, c.Param("id"), patch, getActorID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// DeleteContent handles DELETE /api/content/:id
func DeleteContent(c *gin.Context) {
	if err := services.DeleteContent(c.Request.Context(), database.DB, c.Param("id"), getActorID(c)); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted"})
}

// GetPublicContent handles GET /api/public/content?pageSlug=
func GetPublicContent(c *gin.Context) {
	pageSlug := c.Query("pageSlug")
	if pageSlug == "" {
		c.Error(apperrors.BadRequest("pageSlug is required"))
		return
	}
	lang := middleware.RequestLanguage(c)

	sections, err := services.PublishedSections(c.Request.Context(), database.DB, pageSlug, lang)
	if err != nil {
		c.Error(err)
		return
	}

	type publicSection struct {
		ID          string                 `json:"id"`
		SectionType string                 `json:"sectionType"`
		Title       string                 `json:"title"`
		Fields      map[string]string      `json:"fields"`
		Buttons     []models.ContentButton `json:"buttons"`
		Version     int                    `json:"version"`
	}
	out := make([]publicSection, 0, len(sections))
	for i := range sections {
		s := &sections[i]
		out = append(out, publicSection{
			ID:          s.ID,
			SectionType: s.SectionType,
			Title:       s.Title,
			Fields:      s.FieldMap(),
			Buttons:     s.Buttons,
			Version:     s.Version,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pageSlug": pageSlug, "language": lang, "sections": out})
}
