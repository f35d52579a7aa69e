package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
)

func TestSiteData(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	data := NewSiteData(db)

	section, err := data.PublishedSection(ctx, "home", "hero", models.LanguageEN)
	require.NoError(t, err)
	assert.Nil(t, section, "no live version yet")

	draft := newSection(t, db, models.LanguageEN, "Hero")
	publish(t, db, draft.ID)

	section, err = data.PublishedSection(ctx, "home", "hero", models.LanguageEN)
	require.NoError(t, err)
	require.NotNil(t, section)
	assert.Equal(t, "Hero subtitle", section.FieldMap()["subtitle"])

	for _, p := range []models.Product{
		{Slug: "b-product", Name: "B", Language: models.LanguageEN, IsActive: true, SortOrder: 2},
		{Slug: "a-product", Name: "A", Language: models.LanguageEN, IsActive: true, SortOrder: 1},
		{Slug: "th-product", Name: "TH", Language: models.LanguageTH, IsActive: true},
	} {
		p.ID = uuid.New().String()
		require.NoError(t, db.Create(&p).Error)
	}
	require.NoError(t, db.Create(&models.Product{ID: uuid.New().String(), Slug: "hidden", Name: "Hidden", Language: models.LanguageEN}).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("slug = ?", "hidden").Update("is_active", false).Error)

	products, err := data.ActiveProducts(ctx, models.LanguageEN, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a-product", products[0].Slug)

	limited, err := data.ActiveProducts(ctx, models.LanguageEN, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	tech := models.Technology{ID: uuid.New().String(), Name: "Go", Slug: "go", Category: "BACKEND"}
	require.NoError(t, db.Create(&tech).Error)
	stack := models.TechStackSection{
		ID: uuid.New().String(), PageSlug: "home", Language: models.LanguageEN, Title: "Stack",
	}
	stack.Items = []models.TechStackSectionItem{{ID: uuid.New().String(), SectionID: stack.ID, TechnologyID: tech.ID}}
	require.NoError(t, db.Create(&stack).Error)

	sections, err := data.TechStack(ctx, "home", models.LanguageEN)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Items, 1)
	require.NotNil(t, sections[0].Items[0].Technology)
	assert.Equal(t, "Go", sections[0].Items[0].Technology.Name)

	other, err := data.TechStack(ctx, "home", models.LanguageTH)
	require.NoError(t, err)
	assert.Empty(t, other)
}
