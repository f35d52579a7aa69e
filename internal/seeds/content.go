package seeds

import (
	"context"

	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/services"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"gorm.io/gorm"
)

type seedSection struct {
	PageSlug    string
	SectionType string
	Title       map[models.Language]string
	Fields      map[models.Language][]services.FieldInput
	Buttons     map[models.Language][]services.ButtonInput
}

var siteSections = []seedSection{
	{
		PageSlug:    "home",
		SectionType: "hero",
		Title: map[models.Language]string{
			models.LanguageEN: "Technology that lifts your business",
			models.LanguageTH: "เทคโนโลยีที่ยกระดับธุรกิจของคุณ",
		},
		Fields: map[models.Language][]services.FieldInput{
			models.LanguageEN: {
				{Key: "subtitle", Value: "Custom software, cloud platforms and data products built by a senior team in Bangkok."},
				{Key: "image", Value: "/images/hero/home.webp", Type: models.FieldImage},
			},
			models.LanguageTH: {
				{Key: "subtitle", Value: "ซอฟต์แวร์เฉพาะทาง แพลตฟอร์มคลาวด์ และผลิตภัณฑ์ข้อมูล โดยทีมงานมืออาชีพในกรุงเทพฯ"},
				{Key: "image", Value: "/images/hero/home.webp", Type: models.FieldImage},
			},
		},
		Buttons: map[models.Language][]services.ButtonInput{
			models.LanguageEN: {
				{Label: "Talk to us", Href: "/en/contact", Variant: "primary"},
				{Label: "Our products", Href: "/en/products", Variant: "outline"},
			},
			models.LanguageTH: {
				{Label: "ติดต่อเรา", Href: "/th/contact", Variant: "primary"},
				{Label: "ผลิตภัณฑ์ของเรา", Href: "/th/products", Variant: "outline"},
			},
		},
	},
	{
		PageSlug:    "home",
		SectionType: "about",
		Title: map[models.Language]string{
			models.LanguageEN: "Who we are",
			models.LanguageTH: "เกี่ยวกับเรา",
		},
		Fields: map[models.Language][]services.FieldInput{
			models.LanguageEN: {{Key: "body", Value: "Uplift Technology designs, builds and runs software for companies across Southeast Asia.", Type: models.FieldRichText}},
			models.LanguageTH: {{Key: "body", Value: "อัปลิฟต์ เทคโนโลยี ออกแบบ พัฒนา และดูแลซอฟต์แวร์ให้กับองค์กรทั่วเอเชียตะวันออกเฉียงใต้", Type: models.FieldRichText}},
		},
	},
	{
		PageSlug:    "home",
		SectionType: "cta",
		Title: map[models.Language]string{
			models.LanguageEN: "Ready to start your project?",
			models.LanguageTH: "พร้อมเริ่มโปรเจกต์ของคุณหรือยัง?",
		},
		Buttons: map[models.Language][]services.ButtonInput{
			models.LanguageEN: {{Label: "Book a call", Href: "/en/contact"}},
			models.LanguageTH: {{Label: "นัดหมายพูดคุย", Href: "/th/contact"}},
		},
	},
	{
		PageSlug:    "services",
		SectionType: "hero",
		Title: map[models.Language]string{
			models.LanguageEN: "What we do",
			models.LanguageTH: "บริการของเรา",
		},
		Fields: map[models.Language][]services.FieldInput{
			models.LanguageEN: {{Key: "subtitle", Value: "From discovery to production support."}},
			models.LanguageTH: {{Key: "subtitle", Value: "ตั้งแต่การวิเคราะห์ความต้องการจนถึงการดูแลระบบจริง"}},
		},
	},
}

// SeedContent creates a published and a newer draft version of every site
// section in both languages. Tuples that already have content are skipped.
func SeedContent(ctx context.Context, db *gorm.DB, actorID string) error {
	for _, s := range siteSections {
		for _, lang := range models.Languages {
			var count int64
			if err := db.Model(&models.Content{}).
				Where("page_slug = ? AND section_type = ? AND language = ?", s.PageSlug, s.SectionType, lang).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			input := services.ContentInput{
				PageSlug:    s.PageSlug,
				SectionType: s.SectionType,
				Language:    lang,
				Title:       s.Title[lang],
				Fields:      s.Fields[lang],
				Buttons:     s.Buttons[lang],
			}

			live, err := services.CreateContent(ctx, db, input, actorID)
			if err != nil {
				return err
			}
			if _, err := services.TransitionContent(ctx, db, services.TransitionInput{
				ContentID: live.ID,
				To:        models.StatusPublished,
				ActorID:   actorID,
				Comment:   "Initial content",
			}); err != nil {
				return err
			}

			input.Title = s.Title[lang] + " (draft)"
			if _, err := services.CreateContent(ctx, db, input, actorID); err != nil {
				return err
			}
		}
	}

	logger.Info().Int("sections", len(siteSections)*len(models.Languages)).Msg("Content seeded")
	return nil
}
