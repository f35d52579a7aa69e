package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"gorm.io/gorm"
)

func assertAppError(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func newSection(t *testing.T, db *gorm.DB, lang models.Language, title string) *models.Content {
	t.Helper()
	content, err := CreateContent(context.Background(), db, ContentInput{
		PageSlug:    "home",
		SectionType: "hero",
		Language:    lang,
		Title:       title,
		Fields: []FieldInput{
			{Key: "subtitle", Value: title + " subtitle"},
			{Key: "image", Value: "/hero.webp", Type: models.FieldImage},
		},
		Buttons: []ButtonInput{{Label: "Contact", Href: "/contact"}},
	}, "actor-1")
	require.NoError(t, err)
	return content
}

func publish(t *testing.T, db *gorm.DB, id string) *models.Content {
	t.Helper()
	content, err := TransitionContent(context.Background(), db, TransitionInput{ContentID: id, To: models.StatusPublished, ActorID: "actor-1"})
	require.NoError(t, err)
	return content
}

func statusOf(t *testing.T, db *gorm.DB, id string) models.ContentStatus {
	t.Helper()
	var c models.Content
	require.NoError(t, db.First(&c, "id = ?", id).Error)
	return c.Status
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.ContentStatus
		want     bool
	}{
		{models.StatusDraft, models.StatusReview, true},
		{models.StatusDraft, models.StatusPublished, true},
		{models.StatusReview, models.StatusDraft, true},
		{models.StatusReview, models.StatusPublished, true},
		{models.StatusPublished, models.StatusArchived, true},
		{models.StatusArchived, models.StatusDraft, true},
		{models.StatusArchived, models.StatusPublished, true},
		{models.StatusPublished, models.StatusDraft, false},
		{models.StatusPublished, models.StatusReview, false},
		{models.StatusDraft, models.StatusDraft, false},
		{models.StatusArchived, models.StatusReview, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCreateContent_StartsAsDraft(t *testing.T) {
	db := testutil.SetupDB(t)

	content := newSection(t, db, models.LanguageEN, "Hello")
	assert.Equal(t, models.StatusDraft, content.Status)
	assert.Equal(t, 1, content.Version)
	assert.Equal(t, "actor-1", content.CreatedBy)

	loaded, err := GetContent(context.Background(), db, content.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Fields, 2)
	assert.Equal(t, "subtitle", loaded.Fields[0].Key)
	assert.Equal(t, models.FieldText, loaded.Fields[0].Type)
	require.Len(t, loaded.Buttons, 1)
	assert.Equal(t, "primary", loaded.Buttons[0].Variant)

	history, err := ContentHistory(context.Background(), db, content.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.HistoryCreate, history[0].Action)
}

func TestTransitionContent_PublishArchivesSiblings(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()

	first := newSection(t, db, models.LanguageEN, "First")
	second := newSection(t, db, models.LanguageEN, "Second")
	thai := newSection(t, db, models.LanguageTH, "Thai")

	publish(t, db, first.ID)
	publish(t, db, thai.ID)
	published := publish(t, db, second.ID)

	assert.Equal(t, models.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	require.NotNil(t, published.PublishedBy)
	assert.Equal(t, "actor-1", *published.PublishedBy)

	assert.Equal(t, models.StatusArchived, statusOf(t, db, first.ID))
	assert.Equal(t, models.StatusPublished, statusOf(t, db, thai.ID), "other languages are untouched")

	var count int64
	require.NoError(t, db.Model(&models.Content{}).
		Where("page_slug = ? AND section_type = ? AND language = ? AND status = ?", "home", "hero", models.LanguageEN, models.StatusPublished).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	history, err := ContentHistory(ctx, db, first.ID)
	require.NoError(t, err)
	actions := make([]models.HistoryAction, 0, len(history))
	for _, h := range history {
		actions = append(actions, h.Action)
	}
	assert.ElementsMatch(t, []models.HistoryAction{models.HistoryCreate, models.HistoryTransition, models.HistoryArchive}, actions)

	// an archived version can be restored, which archives the current one
	publish(t, db, first.ID)
	assert.Equal(t, models.StatusPublished, statusOf(t, db, first.ID))
	assert.Equal(t, models.StatusArchived, statusOf(t, db, second.ID))
}

func TestTransitionContent_RejectsInvalidMoves(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	content := newSection(t, db, models.LanguageEN, "Hello")

	_, err := TransitionContent(ctx, db, TransitionInput{ContentID: content.ID, To: models.StatusDraft})
	assertAppError(t, err, http.StatusConflict)

	publish(t, db, content.ID)
	_, err = TransitionContent(ctx, db, TransitionInput{ContentID: content.ID, To: models.StatusReview})
	assertAppError(t, err, http.StatusConflict)
	assert.Equal(t, models.StatusPublished, statusOf(t, db, content.ID))

	_, err = TransitionContent(ctx, db, TransitionInput{ContentID: "missing", To: models.StatusPublished})
	assertAppError(t, err, http.StatusNotFound)

	_, err = TransitionContent(ctx, db, TransitionInput{ContentID: content.ID, To: "LIVE"})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestUpdateContent_BumpsVersionAndReplacesChildren(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	content := newSection(t, db, models.LanguageEN, "Hello")

	title := "Updated"
	fields := []FieldInput{{Key: "body", Value: "New body", Type: models.FieldRichText}}
	updated, err := UpdateContent(ctx, db, content.ID, ContentPatch{Title: &title, Fields: &fields}, "editor")
	require.NoError(t, err)

	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "editor", updated.UpdatedBy)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "body", updated.Fields[0].Key)
	assert.Len(t, updated.Buttons, 1, "buttons are kept when not sent")

	history, err := ContentHistory(ctx, db, content.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestUpdateContent_ArchivedIsReadOnly(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	content := newSection(t, db, models.LanguageEN, "Hello")

	_, err := TransitionContent(ctx, db, TransitionInput{ContentID: content.ID, To: models.StatusArchived})
	require.NoError(t, err)

	title := "Nope"
	_, err = UpdateContent(ctx, db, content.ID, ContentPatch{Title: &title}, "editor")
	assertAppError(t, err, http.StatusConflict)
}

func TestDeleteContent(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	content := newSection(t, db, models.LanguageEN, "Hello")

	require.NoError(t, DeleteContent(ctx, db, content.ID, "admin"))

	var fields int64
	require.NoError(t, db.Model(&models.ContentField{}).Where("content_id = ?", content.ID).Count(&fields).Error)
	assert.Zero(t, fields)

	var history int64
	require.NoError(t, db.Model(&models.ContentHistory{}).Where("content_id = ?", content.ID).Count(&history).Error)
	assert.Equal(t, int64(1), history, "history outlives the section")

	var audit models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", content.ID).First(&audit).Error)
	assert.Equal(t, models.ActionDeleteContent, audit.Action)

	assertAppError(t, DeleteContent(ctx, db, content.ID, "admin"), http.StatusNotFound)
}

func TestListContent_Filters(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	en := newSection(t, db, models.LanguageEN, "EN")
	newSection(t, db, models.LanguageTH, "TH")
	publish(t, db, en.ID)

	all, err := ListContent(ctx, db, ContentFilter{PageSlug: "home"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	live, err := PublishedSections(ctx, db, "home", models.LanguageEN)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, en.ID, live[0].ID)

	none, err := ListContent(ctx, db, ContentFilter{Status: models.StatusReview})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSinglePublishedIndex(t *testing.T) {
	db := testutil.SetupDB(t)
	a := newSection(t, db, models.LanguageEN, "A")
	b := newSection(t, db, models.LanguageEN, "B")

	require.NoError(t, db.Model(&models.Content{}).Where("id = ?", a.ID).Update("status", models.StatusPublished).Error)
	err := db.Model(&models.Content{}).Where("id = ?", b.ID).Update("status", models.StatusPublished).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestContentHistory_MissingContent(t *testing.T) {
	db := testutil.SetupDB(t)
	_, err := ContentHistory(context.Background(), db, "missing")
	assertAppError(t, err, http.StatusNotFound)
}
