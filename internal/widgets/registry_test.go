package widgets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
)

type fakeData struct {
	sections map[string]*models.Content
	products []models.Product
	stack    []models.TechStackSection
	err      error
}

func (f *fakeData) PublishedSection(_ context.Context, _ string, sectionType string, _ models.Language) (*models.Content, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sections[sectionType], nil
}

func (f *fakeData) ActiveProducts(_ context.Context, _ models.Language, limit int) ([]models.Product, error) {
	if limit > 0 && limit < len(f.products) {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakeData) TechStack(context.Context, string, models.Language) ([]models.TechStackSection, error) {
	return f.stack, nil
}

func noop(context.Context, RenderContext, Props) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{Key: "a", Category: "x", Render: noop}))

	assert.ErrorIs(t, r.Register(Definition{Key: "a", Render: noop}), ErrDuplicateKey)
	assert.ErrorIs(t, r.Register(Definition{Key: " ", Render: noop}), ErrEmptyKey)
	assert.ErrorIs(t, r.Register(Definition{Key: "b"}), ErrMissingRender)

	def, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", def.Component, "component defaults to the key")
}

func TestCatalogFilters(t *testing.T) {
	r := Default()

	all := r.Catalog("", "")
	require.Len(t, all, 6)
	assert.Equal(t, "content.section", all[0].Key)

	heroes := r.Catalog("HERO", "")
	require.Len(t, heroes, 2)
	assert.Equal(t, "hero.default", heroes[0].Key)
	assert.Equal(t, "hero.split", heroes[1].Key)

	withImage := r.Catalog("", "image")
	require.Len(t, withImage, 1)
	assert.Equal(t, "hero.split", withImage[0].Key)

	assert.Empty(t, r.Catalog("nope", ""))
	assert.Equal(t, []string{"catalog", "content", "hero", "marketing"}, r.Categories())
}

func TestRenderPage(t *testing.T) {
	data := &fakeData{
		sections: map[string]*models.Content{
			"hero": {
				ID:      "c1",
				Title:   "Build with Uplift",
				Fields:  []models.ContentField{{Key: "subtitle", Value: "Software that lifts"}},
				Buttons: []models.ContentButton{{Label: "Contact", Href: "/contact", Variant: "primary"}},
			},
		},
		products: []models.Product{{Slug: "erp", Name: "ERP"}, {Slug: "hr", Name: "HR"}},
	}
	rc := RenderContext{PageSlug: "home", Language: models.LanguageEN, Data: data}

	sections, err := Default().RenderPage(context.Background(), rc, []WidgetConfig{
		{Key: "hero.split", Props: Props{"imagePosition": "left"}},
		{Key: "does.not.exist"},
		{Key: "content.section", Props: Props{"sectionType": "about"}}, // nothing published
		{Key: "product.grid", Props: Props{"limit": float64(1)}},
		{Key: "tech.stack"}, // empty
		{Key: "cta.banner", Props: Props{"title": "Talk to us", "href": "/contact"}},
	})
	require.NoError(t, err)
	require.Len(t, sections, 3)

	hero := sections[0]
	assert.Equal(t, "HeroSplit", hero.Component)
	assert.Equal(t, "left", hero.Props["imagePosition"])
	assert.Equal(t, "Build with Uplift", hero.Props["title"])
	assert.Equal(t, map[string]string{"subtitle": "Software that lifts"}, hero.Props["fields"])

	grid := sections[1]
	assert.Equal(t, "product.grid", grid.Key)
	assert.Len(t, grid.Props["products"], 1)

	assert.Equal(t, "cta.banner", sections[2].Key)
}

func TestRenderPropagatesDataErrors(t *testing.T) {
	boom := errors.New("db down")
	rc := RenderContext{PageSlug: "home", Language: models.LanguageTH, Data: &fakeData{err: boom}}

	_, err := Default().RenderPage(context.Background(), rc, []WidgetConfig{{Key: "hero.default"}})
	assert.ErrorIs(t, err, boom)
}

func TestValidate(t *testing.T) {
	err := Default().Validate([]WidgetConfig{{Key: "hero.default"}, {Key: "x"}, {Key: "y"}})
	require.ErrorIs(t, err, ErrUnknownWidget)
	assert.Contains(t, err.Error(), "x, y")
	assert.NoError(t, Default().Validate([]WidgetConfig{{Key: "tech.stack"}}))
}

func TestPropsHelpers(t *testing.T) {
	p := Props{"n": float64(3), "s": "7", "b": true, "empty": ""}
	assert.Equal(t, 3, p.IntOr("n", 0))
	assert.Equal(t, 7, p.IntOr("s", 0))
	assert.Equal(t, 9, p.IntOr("missing", 9))
	assert.Equal(t, "fallback", p.StringOr("empty", "fallback"))
	assert.True(t, p.BoolOr("b", false))
}

func TestValidate_CTABannerHref(t *testing.T) {
	err := Default().Validate([]WidgetConfig{
		{Key: "hero.default"},
		{Key: "cta.banner", Props: Props{"title": "Win", "href": "javascript:alert(document.cookie)"}},
	})
	require.ErrorIs(t, err, ErrInvalidProps)
	assert.Contains(t, err.Error(), "widgets[1]")

	assert.ErrorIs(t, Default().Validate([]WidgetConfig{{Key: "cta.banner", Props: Props{"href": 42}}}), ErrInvalidProps)
	assert.NoError(t, Default().Validate([]WidgetConfig{
		{Key: "cta.banner", Props: Props{"title": "Talk to us", "href": "/th/contact"}},
		{Key: "cta.banner", Props: Props{"sectionType": "cta"}},
	}))
}

func TestRenderPage_DropsUnsafeCTA(t *testing.T) {
	rc := RenderContext{PageSlug: "home", Language: models.LanguageEN, Data: &fakeData{}}

	sections, err := Default().RenderPage(context.Background(), rc, []WidgetConfig{
		{Key: "cta.banner", Props: Props{"title": "Win", "href": "javascript:alert(document.cookie)"}},
		{Key: "cta.banner", Props: Props{"title": "Mail us", "href": "mailto:hello@uplift.test"}},
	})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	buttons := sections[0].Props["buttons"].([]map[string]interface{})
	assert.Equal(t, "mailto:hello@uplift.test", buttons[0]["href"])
}
