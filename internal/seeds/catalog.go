package seeds

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/widgets"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var technologies = []models.Technology{
	{Name: "Go", Slug: "go", Category: "BACKEND", IconURL: "/icons/tech/go.svg", WebsiteURL: "https://go.dev"},
	{Name: "PostgreSQL", Slug: "postgresql", Category: "DATA", IconURL: "/icons/tech/postgresql.svg", WebsiteURL: "https://www.postgresql.org"},
	{Name: "Redis", Slug: "redis", Category: "DATA", IconURL: "/icons/tech/redis.svg", WebsiteURL: "https://redis.io"},
	{Name: "React", Slug: "react", Category: "FRONTEND", IconURL: "/icons/tech/react.svg", WebsiteURL: "https://react.dev"},
	{Name: "Next.js", Slug: "nextjs", Category: "FRONTEND", IconURL: "/icons/tech/nextjs.svg", WebsiteURL: "https://nextjs.org"},
	{Name: "Kubernetes", Slug: "kubernetes", Category: "CLOUD", IconURL: "/icons/tech/kubernetes.svg", WebsiteURL: "https://kubernetes.io"},
	{Name: "AWS", Slug: "aws", Category: "CLOUD", IconURL: "/icons/tech/aws.svg", WebsiteURL: "https://aws.amazon.com"},
	{Name: "Flutter", Slug: "flutter", Category: "MOBILE", IconURL: "/icons/tech/flutter.svg", WebsiteURL: "https://flutter.dev"},
}

// SeedTechnologies inserts the catalog technologies that are missing by slug.
func SeedTechnologies(db *gorm.DB) (map[string]string, error) {
	ids := make(map[string]string, len(technologies))
	for _, t := range technologies {
		var existing models.Technology
		err := db.Where("slug = ?", t.Slug).First(&existing).Error
		if err == nil {
			ids[t.Slug] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		tech := t
		tech.ID = uuid.New().String()
		if err := db.Create(&tech).Error; err != nil {
			return nil, err
		}
		ids[tech.Slug] = tech.ID
	}
	logger.Info().Int("technologies", len(ids)).Msg("Technologies seeded")
	return ids, nil
}

type seedProduct struct {
	Slug     string
	Language models.Language
	Name     string
	Tagline  string
	Features []string
	Cards    []models.ProductCard
}

var products = []seedProduct{
	{
		Slug:     "uplift-hr",
		Language: models.LanguageEN,
		Name:     "Uplift HR",
		Tagline:  "Payroll, leave and attendance for Thai companies",
		Features: []string{"Thai payroll and social security", "Leave workflows", "Mobile time clock"},
		Cards: []models.ProductCard{
			{Title: "Payroll", Description: "Monthly payroll with PND.1 export.", Icon: "wallet"},
			{Title: "Attendance", Description: "Geo-fenced mobile check-in.", Icon: "map-pin"},
		},
	},
	{
		Slug:     "uplift-hr-th",
		Language: models.LanguageTH,
		Name:     "อัปลิฟต์ เอชอาร์",
		Tagline:  "ระบบเงินเดือน การลา และเวลาทำงานสำหรับบริษัทไทย",
		Features: []string{"คำนวณเงินเดือนและประกันสังคม", "ขั้นตอนอนุมัติการลา", "ลงเวลาผ่านมือถือ"},
		Cards: []models.ProductCard{
			{Title: "เงินเดือน", Description: "คำนวณเงินเดือนรายเดือนพร้อมส่งออก ภ.ง.ด.1", Icon: "wallet"},
		},
	},
	{
		Slug:     "uplift-insight",
		Language: models.LanguageEN,
		Name:     "Uplift Insight",
		Tagline:  "Dashboards on top of the data you already have",
		Features: []string{"Warehouse connectors", "Scheduled reports"},
	},
}

// SeedProducts inserts the demo products that are missing by slug.
func SeedProducts(db *gorm.DB) error {
	created := 0
	for i, p := range products {
		var count int64
		if err := db.Model(&models.Product{}).Where("slug = ?", p.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		product := models.Product{
			ID:           uuid.New().String(),
			Slug:         p.Slug,
			Language:     p.Language,
			Name:         p.Name,
			Tagline:      p.Tagline,
			Features:     models.StringList(p.Features),
			FeatureCount: len(p.Features),
			IsActive:     true,
			SortOrder:    i,
		}
		if len(p.Cards) > 0 {
			section := models.ProductSection{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Type:      "highlights",
				Title:     p.Name,
			}
			for j, card := range p.Cards {
				card.ID = uuid.New().String()
				card.SectionID = section.ID
				card.SortOrder = j
				section.Cards = append(section.Cards, card)
			}
			product.Sections = []models.ProductSection{section}
		}

		if err := db.Create(&product).Error; err != nil {
			return err
		}
		created++
	}
	logger.Info().Int("created", created).Msg("Products seeded")
	return nil
}

// SeedTechStack gives the home page one stack section per language.
func SeedTechStack(db *gorm.DB, techIDs map[string]string) error {
	titles := map[models.Language]string{
		models.LanguageEN: "Our stack",
		models.LanguageTH: "เทคโนโลยีที่เราใช้",
	}
	order := []string{"go", "postgresql", "redis", "react", "nextjs", "kubernetes", "aws", "flutter"}

	for _, lang := range models.Languages {
		var count int64
		if err := db.Model(&models.TechStackSection{}).Where("page_slug = ? AND language = ?", "home", lang).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		section := models.TechStackSection{
			ID:       uuid.New().String(),
			PageSlug: "home",
			Language: lang,
			Title:    titles[lang],
		}
		for i, slug := range order {
			id, ok := techIDs[slug]
			if !ok {
				continue
			}
			section.Items = append(section.Items, models.TechStackSectionItem{
				ID:           uuid.New().String(),
				SectionID:    section.ID,
				TechnologyID: id,
				SortOrder:    i,
			})
		}
		if err := db.Create(&section).Error; err != nil {
			return err
		}
	}
	logger.Info().Msg("Tech stack seeded")
	return nil
}

var pageLayouts = map[string][]widgets.WidgetConfig{
	"home": {
		{Key: "hero.split", Props: widgets.Props{"imagePosition": "right"}},
		{Key: "content.section", Props: widgets.Props{"sectionType": "about"}},
		{Key: "product.grid", Props: widgets.Props{"limit": 3}},
		{Key: "tech.stack"},
		{Key: "cta.banner", Props: widgets.Props{"sectionType": "cta"}},
	},
	"services": {
		{Key: "hero.default"},
		{Key: "tech.stack", Props: widgets.Props{"pageSlug": "home"}},
	},
}

var pageTitles = map[string]map[models.Language]string{
	"home":     {models.LanguageEN: "Uplift Technology", models.LanguageTH: "อัปลิฟต์ เทคโนโลยี"},
	"services": {models.LanguageEN: "Services", models.LanguageTH: "บริการ"},
}

// SeedPages stores the widget layout of every page in both languages.
func SeedPages(db *gorm.DB, actorID string) error {
	registry := widgets.Default()
	for slug, configs := range pageLayouts {
		if err := registry.Validate(configs); err != nil {
			return err
		}
		raw, err := json.Marshal(configs)
		if err != nil {
			return err
		}
		for _, lang := range models.Languages {
			var count int64
			if err := db.Model(&models.PageLayout{}).Where("slug = ? AND language = ?", slug, lang).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := db.Create(&models.PageLayout{
				ID:        uuid.New().String(),
				Slug:      slug,
				Language:  lang,
				Title:     pageTitles[slug][lang],
				Widgets:   datatypes.JSON(raw),
				UpdatedBy: actorID,
			}).Error; err != nil {
				return err
			}
		}
	}
	logger.Info().Int("pages", len(pageLayouts)).Msg("Page layouts seeded")
	return nil
}
