package migrations

import (
	"gorm.io/gorm"
)

// Migration001SinglePublishedContent backs the archive-on-publish transaction with a
// partial unique index: at most one PUBLISHED row per page/section/language.
// Partial indexes are supported by both postgres and sqlite.
func Migration001SinglePublishedContent() Migration {
	return Migration{
		ID:   "001_single_published_content",
		Name: "Unique published content per page section and language",
		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE UNIQUE INDEX IF NOT EXISTS idx_contents_single_published
				ON contents (page_slug, section_type, language)
				WHERE status = 'PUBLISHED'
			`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_contents_single_published`).Error
		},
	}
}
