package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/models"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transitions lists the statuses reachable from each status.
var transitions = map[models.ContentStatus][]models.ContentStatus{
	models.StatusDraft:     {models.StatusReview, models.StatusPublished, models.StatusArchived},
	models.StatusReview:    {models.StatusDraft, models.StatusPublished, models.StatusArchived},
	models.StatusPublished: {models.StatusArchived},
	models.StatusArchived:  {models.StatusDraft, models.StatusPublished},
}

// CanTransition reports whether content may move from one status to another.
func CanTransition(from, to models.ContentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type FieldInput struct {
	Key       string           `json:"key" binding:"required,max=100"`
	Value     string           `json:"value"`
	Type      models.FieldType `json:"type" binding:"omitempty,oneof=TEXT RICH_TEXT IMAGE LINK"`
	SortOrder int              `json:"sortOrder"`
}

type ButtonInput struct {
	Label     string `json:"label" binding:"required,max=100"`
	Href      string `json:"href" binding:"required"`
	Variant   string `json:"variant" binding:"omitempty,oneof=primary secondary outline link"`
	SortOrder int    `json:"sortOrder"`
}

type ContentInput struct {
	PageSlug    string          `json:"pageSlug" binding:"required,slug"`
	SectionType string          `json:"sectionType" binding:"required,max=64"`
	Language    models.Language `json:"language" binding:"required,oneof=en th"`
	Title       string          `json:"title" binding:"max=255"`
	SortOrder   int             `json:"sortOrder"`
	Fields      []FieldInput    `json:"fields" binding:"dive"`
	Buttons     []ButtonInput   `json:"buttons" binding:"dive"`
}

type ContentPatch struct {
	Title     *string        `json:"title" binding:"omitempty,max=255"`
	SortOrder *int           `json:"sortOrder"`
	Fields    *[]FieldInput  `json:"fields" binding:"omitempty,dive"`
	Buttons   *[]ButtonInput `json:"buttons" binding:"omitempty,dive"`
}

type TransitionInput struct {
	ContentID string               `json:"id" binding:"required"`
	To        models.ContentStatus `json:"status" binding:"required,oneof=DRAFT REVIEW PUBLISHED ARCHIVED"`
	Comment   string               `json:"comment" binding:"max=500"`
	ActorID   string               `json:"-"`
}

type ContentFilter struct {
	PageSlug    string
	SectionType string
	Language    models.Language
	Status      models.ContentStatus
}

func buildFields(contentID string, in []FieldInput) []models.ContentField {
	fields := make([]models.ContentField, 0, len(in))
	for i, f := range in {
		fieldType := f.Type
		if fieldType == "" {
			fieldType = models.FieldText
		}
		order := f.SortOrder
		if order == 0 {
			order = i
		}
		fields = append(fields, models.ContentField{
			ID:        uuid.New().String(),
			ContentID: contentID,
			Key:       f.Key,
			Value:     f.Value,
			Type:      fieldType,
			SortOrder: order,
		})
	}
	return fields
}

func buildButtons(contentID string, in []ButtonInput) []models.ContentButton {
	buttons := make([]models.ContentButton, 0, len(in))
	for i, b := range in {
		variant := b.Variant
		if variant == "" {
			variant = "primary"
		}
		order := b.SortOrder
		if order == 0 {
			order = i
		}
		buttons = append(buttons, models.ContentButton{
			ID:        uuid.New().String(),
			ContentID: contentID,
			Label:     b.Label,
			Href:      b.Href,
			Variant:   variant,
			SortOrder: order,
		})
	}
	return buttons
}

func preloadOrdered(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Fields", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		Preload("Buttons", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") })
}

func snapshot(c *models.Content) datatypes.JSON {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func writeHistory(tx *gorm.DB, c *models.Content, action models.HistoryAction, from, to models.ContentStatus, actorID, comment string) error {
	entry := models.ContentHistory{
		ID:         uuid.New().String(),
		ContentID:  c.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Version:    c.Version,
		Comment:    comment,
		Snapshot:   snapshot(c),
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	}
	return tx.Create(&entry).Error
}

func loadContent(tx *gorm.DB, id string, lock bool) (*models.Content, error) {
	var content models.Content
	q := tx
	if lock && database.IsPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Content not found")
		}
		return nil, err
	}
	return &content, nil
}

func invalidatePage(ctx context.Context, pageSlug string) {
	if err := database.InvalidatePage(ctx, pageSlug); err != nil {
		logger.Warn().Err(err).Str("page", pageSlug).Msg("Failed to invalidate page cache")
	}
}

// CreateContent stores a new DRAFT section with its fields and buttons.
func CreateContent(ctx context.Context, db *gorm.DB, in ContentInput, actorID string) (*models.Content, error) {
	fields, buttons, err := sanitizeBody(in.Fields, in.Buttons)
	if err != nil {
		return nil, err
	}

	content := models.Content{
		ID:          uuid.New().String(),
		PageSlug:    in.PageSlug,
		SectionType: in.SectionType,
		Language:    in.Language,
		Title:       in.Title,
		Status:      models.StatusDraft,
		Version:     1,
		SortOrder:   in.SortOrder,
		CreatedBy:   actorID,
		UpdatedBy:   actorID,
	}
	content.Fields = buildFields(content.ID, fields)
	content.Buttons = buildButtons(content.ID, buttons)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&content).Error; err != nil {
			return err
		}
		return writeHistory(tx, &content, models.HistoryCreate, "", models.StatusDraft, actorID, "")
	})
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// UpdateContent edits a section in place and bumps its version.
// Archived sections must be moved back to DRAFT first.
func UpdateContent(ctx context.Context, db *gorm.DB, id string, patch ContentPatch, actorID string) (*models.Content, error) {
	var fieldsIn []FieldInput
	var buttonsIn []ButtonInput
	if patch.Fields != nil {
		fieldsIn = *patch.Fields
	}
	if patch.Buttons != nil {
		buttonsIn = *patch.Buttons
	}
	fieldsIn, buttonsIn, err := sanitizeBody(fieldsIn, buttonsIn)
	if err != nil {
		return nil, err
	}
	if patch.Fields != nil {
		patch.Fields = &fieldsIn
	}
	if patch.Buttons != nil {
		patch.Buttons = &buttonsIn
	}

	var result *models.Content
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := loadContent(tx, id, true)
		if err != nil {
			return err
		}
		if content.Status == models.StatusArchived {
			return apperrors.Conflict("Archived content cannot be edited; move it back to DRAFT first")
		}

		updates := map[string]interface{}{
			"version":    content.Version + 1,
			"updated_by": actorID,
		}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.SortOrder != nil {
			updates["sort_order"] = *patch.SortOrder
		}
		if err := tx.Model(content).Updates(updates).Error; err != nil {
			return err
		}

		if patch.Fields != nil {
			if err := tx.Where("content_id = ?", id).Delete(&models.ContentField{}).Error; err != nil {
				return err
			}
			if fields := buildFields(id, *patch.Fields); len(fields) > 0 {
				if err := tx.Create(&fields).Error; err != nil {
					return err
				}
			}
		}
		if patch.Buttons != nil {
			if err := tx.Where("content_id = ?", id).Delete(&models.ContentButton{}).Error; err != nil {
				return err
			}
			if buttons := buildButtons(id, *patch.Buttons); len(buttons) > 0 {
				if err := tx.Create(&buttons).Error; err != nil {
					return err
				}
			}
		}

		var fresh models.Content
		if err := preloadOrdered(tx).First(&fresh, "id = ?", id).Error; err != nil {
			return err
		}
		result = &fresh
		return writeHistory(tx, &fresh, models.HistoryUpdate, fresh.Status, fresh.Status, actorID, "")
	})
	if err != nil {
		return nil, err
	}

	if result.Status == models.StatusPublished {
		invalidatePage(ctx, result.PageSlug)
	}
	return result, nil
}

// TransitionContent moves a section through the publishing workflow. Publishing
// archives every other PUBLISHED row of the same page, section and language in
// the same transaction, so exactly one stays PUBLISHED.
func TransitionContent(ctx context.Context, db *gorm.DB, in TransitionInput) (*models.Content, error) {
	if !in.To.IsValid() {
		return nil, apperrors.BadRequest("Unknown content status")
	}

	var result *models.Content
	var archived int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := loadContent(tx, in.ContentID, true)
		if err != nil {
			return err
		}
		from := content.Status
		if !CanTransition(from, in.To) {
			return apperrors.Conflict(fmt.Sprintf("Invalid status transition %s -> %s", from, in.To))
		}

		now := time.Now()
		if in.To == models.StatusPublished {
			if database.IsPostgres(tx) {
				// serialise publishers of the same tuple; the partial unique index is the backstop
				key := content.PageSlug + "|" + content.SectionType + "|" + string(content.Language)
				if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
					return err
				}
			}

			var siblings []models.Content
			q := tx.Where("page_slug = ? AND section_type = ? AND language = ? AND status = ? AND id <> ?",
				content.PageSlug, content.SectionType, content.Language, models.StatusPublished, content.ID)
			if database.IsPostgres(tx) {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			if err := q.Find(&siblings).Error; err != nil {
				return err
			}

			for i := range siblings {
				sibling := &siblings[i]
				if err := tx.Model(sibling).Updates(map[string]interface{}{
					"status":     models.StatusArchived,
					"updated_by": in.ActorID,
				}).Error; err != nil {
					return err
				}
				if err := writeHistory(tx, sibling, models.HistoryArchive, models.StatusPublished, models.StatusArchived,
					in.ActorID, "Superseded by "+content.ID); err != nil {
					return err
				}
			}
			archived = len(siblings)
		}

		updates := map[string]interface{}{
			"status":     in.To,
			"updated_by": in.ActorID,
		}
		if in.To == models.StatusPublished {
			updates["published_at"] = now
			updates["published_by"] = in.ActorID
		}
		if err := tx.Model(content).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Another version of this section was published concurrently")
			}
			return err
		}

		var fresh models.Content
		if err := preloadOrdered(tx).First(&fresh, "id = ?", content.ID).Error; err != nil {
			return err
		}
		result = &fresh
		return writeHistory(tx, &fresh, models.HistoryTransition, from, in.To, in.ActorID, in.Comment)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("content_id", result.ID).
		Str("status", string(result.Status)).
		Int("archived", archived).
		Str("actor", in.ActorID).
		Msg("Content status changed")

	if in.To == models.StatusPublished || in.To == models.StatusArchived || archived > 0 {
		invalidatePage(ctx, result.PageSlug)
	}
	return result, nil
}

// DeleteContent removes a section and its fields and buttons. History rows are kept.
func DeleteContent(ctx context.Context, db *gorm.DB, id, actorID string) error {
	var pageSlug string
	var wasPublished bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := loadContent(tx, id, true)
		if err != nil {
			return err
		}
		pageSlug = content.PageSlug
		wasPublished = content.Status == models.StatusPublished

		if err := tx.Where("content_id = ?", id).Delete(&models.ContentField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&models.ContentButton{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(content).Error; err != nil {
			return err
		}
		return LogAudit(tx, actorID, models.ActionDeleteContent, "content", id,
			fmt.Sprintf("%s/%s (%s)", content.PageSlug, content.SectionType, content.Language))
	})
	if err != nil {
		return err
	}
	if wasPublished {
		invalidatePage(ctx, pageSlug)
	}
	return nil
}

// GetContent loads a section with ordered fields and buttons.
func GetContent(ctx context.Context, db *gorm.DB, id string) (*models.Content, error) {
	var content models.Content
	if err := preloadOrdered(db.WithContext(ctx)).First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Content not found")
		}
		return nil, err
	}
	return &content, nil
}

func ListContent(ctx context.Context, db *gorm.DB, f ContentFilter) ([]models.Content, error) {
	q := preloadOrdered(db.WithContext(ctx)).Model(&models.Content{})
	if f.PageSlug != "" {
		q = q.Where("page_slug = ?", f.PageSlug)
	}
	if f.SectionType != "" {
		q = q.Where("section_type = ?", f.SectionType)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	contents := []models.Content{}
	err := q.Order("page_slug ASC, sort_order ASC, updated_at DESC").Find(&contents).Error
	return contents, err
}

// PublishedSections returns the live sections of a page in display order.
func PublishedSections(ctx context.Context, db *gorm.DB, pageSlug string, lang models.Language) ([]models.Content, error) {
	return ListContent(ctx, db, ContentFilter{PageSlug: pageSlug, Language: lang, Status: models.StatusPublished})
}

// ContentHistory returns the audit trail of a section, newest first.
func ContentHistory(ctx context.Context, db *gorm.DB, contentID string) ([]models.ContentHistory, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Content{}).Where("id = ?", contentID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperrors.NotFound("Content not found")
	}

	history := []models.ContentHistory{}
	err := db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("created_at DESC").
		Find(&history).Error
	return history, err
}
