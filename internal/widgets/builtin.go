package widgets

import (
	"context"
	"errors"

	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
)

const (
	CategoryHero      = "hero"
	CategoryContent   = "content"
	CategoryCatalog   = "catalog"
	CategoryMarketing = "marketing"
)

func registerBuiltins(r *Registry) {
	r.MustRegister(Definition{
		Key:         "hero.default",
		Name:        "Hero",
		Category:    CategoryHero,
		Tags:        []string{"hero", "above-the-fold", "cms"},
		Description: "Centered headline, subtitle and call-to-action buttons from the page's hero section.",
		Component:   "HeroDefault",
		Render:      renderHero("centered"),
	})
	r.MustRegister(Definition{
		Key:         "hero.split",
		Name:        "Split hero",
		Category:    CategoryHero,
		Tags:        []string{"hero", "above-the-fold", "image", "cms"},
		Description: "Headline beside an image; imagePosition selects left or right.",
		Component:   "HeroSplit",
		Render:      renderHero("split"),
	})
	r.MustRegister(Definition{
		Key:         "content.section",
		Name:        "Content section",
		Category:    CategoryContent,
		Tags:        []string{"cms", "text"},
		Description: "Any published content section, chosen by sectionType.",
		Component:   "ContentSection",
		Render:      renderContentSection,
	})
	r.MustRegister(Definition{
		Key:         "product.grid",
		Name:        "Product grid",
		Category:    CategoryCatalog,
		Tags:        []string{"products", "grid"},
		Description: "Active products in display order; limit caps the count.",
		Component:   "ProductGrid",
		Render:      renderProductGrid,
	})
	r.MustRegister(Definition{
		Key:         "tech.stack",
		Name:        "Tech stack",
		Category:    CategoryCatalog,
		Tags:        []string{"technologies", "icons"},
		Description: "Technology icon groups configured for the page.",
		Component:   "TechStack",
		Render:      renderTechStack,
	})
	r.MustRegister(Definition{
		Key:           "cta.banner",
		Name:          "Call to action banner",
		Category:      CategoryMarketing,
		Tags:          []string{"cta", "cms"},
		Description:   "Banner from a content section, or from static title/label/href props.",
		Component:     "CtaBanner",
		Render:        renderCTABanner,
		ValidateProps: validateCTABanner,
	})
}

func contentProps(c *models.Content) map[string]interface{} {
	buttons := make([]map[string]interface{}, 0, len(c.Buttons))
	for _, b := range c.Buttons {
		buttons = append(buttons, map[string]interface{}{
			"label":   b.Label,
			"href":    b.Href,
			"variant": b.Variant,
		})
	}
	return map[string]interface{}{
		"contentId": c.ID,
		"title":     c.Title,
		"fields":    c.FieldMap(),
		"buttons":   buttons,
	}
}

func renderHero(layout string) RenderFunc {
	return func(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error) {
		content, err := rc.Data.PublishedSection(ctx, rc.PageSlug, props.StringOr("sectionType", "hero"), rc.Language)
		if err != nil || content == nil {
			return nil, err
		}
		out := contentProps(content)
		out["layout"] = layout
		if layout == "split" {
			out["imagePosition"] = props.StringOr("imagePosition", "right")
		}
		return out, nil
	}
}

func renderContentSection(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error) {
	sectionType := props.StringOr("sectionType", "")
	if sectionType == "" {
		return nil, nil
	}
	content, err := rc.Data.PublishedSection(ctx, rc.PageSlug, sectionType, rc.Language)
	if err != nil || content == nil {
		return nil, err
	}
	out := contentProps(content)
	out["sectionType"] = sectionType
	return out, nil
}

func renderProductGrid(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error) {
	products, err := rc.Data.ActiveProducts(ctx, rc.Language, props.IntOr("limit", 6))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 && !props.BoolOr("showEmpty", false) {
		return nil, nil
	}

	items := make([]map[string]interface{}, 0, len(products))
	for _, p := range products {
		items = append(items, map[string]interface{}{
			"slug":          p.Slug,
			"name":          p.Name,
			"tagline":       p.Tagline,
			"coverImageUrl": p.CoverImageURL,
			"featureCount":  p.FeatureCount,
		})
	}
	return map[string]interface{}{
		"title":    props.StringOr("title", ""),
		"products": items,
	}, nil
}

func renderTechStack(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error) {
	sections, err := rc.Data.TechStack(ctx, props.StringOr("pageSlug", rc.PageSlug), rc.Language)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}

	groups := make([]map[string]interface{}, 0, len(sections))
	for _, s := range sections {
		techs := make([]map[string]interface{}, 0, len(s.Items))
		for _, item := range s.Items {
			if item.Technology == nil {
				continue
			}
			techs = append(techs, map[string]interface{}{
				"name":     item.Technology.Name,
				"slug":     item.Technology.Slug,
				"iconUrl":  item.Technology.IconURL,
				"category": item.Technology.Category,
			})
		}
		groups = append(groups, map[string]interface{}{
			"title":        s.Title,
			"technologies": techs,
		})
	}
	return map[string]interface{}{"groups": groups}, nil
}

func validateCTABanner(props Props) error {
	href, ok := props["href"]
	if !ok {
		return nil
	}
	s, isString := href.(string)
	if !isString {
		return errors.New("href must be a string")
	}
	if s == "" {
		return nil
	}
	return utils.ValidateHref(s)
}

func renderCTABanner(ctx context.Context, rc RenderContext, props Props) (map[string]interface{}, error) {
	if sectionType := props.StringOr("sectionType", ""); sectionType != "" {
		content, err := rc.Data.PublishedSection(ctx, rc.PageSlug, sectionType, rc.Language)
		if err != nil || content == nil {
			return nil, err
		}
		return contentProps(content), nil
	}

	title := props.StringOr("title", "")
	href := props.StringOr("href", "")
	if title == "" || href == "" {
		return nil, nil
	}
	if err := utils.ValidateHref(href); err != nil {
		logger.Warn().Err(err).Str("page", rc.PageSlug).Msg("Dropping call to action with unsafe href")
		return nil, nil
	}
	return map[string]interface{}{
		"title": title,
		"buttons": []map[string]interface{}{{
			"label":   props.StringOr("label", title),
			"href":    href,
			"variant": props.StringOr("variant", "primary"),
		}},
	}, nil
}
