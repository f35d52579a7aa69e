package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddLookupIndexes adds indexes for the public read paths:
// published sections of a page and the ordered product listing.
func Migration002AddLookupIndexes() Migration {
	return Migration{
		ID:        "002_add_lookup_indexes",
		Name:      "Add lookup indexes for public page reads",
		DependsOn: []string{"001_single_published_content"},
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_contents_page_status ON contents (page_slug, language, status)`,
				`CREATE INDEX IF NOT EXISTS idx_products_active_order ON products (is_active, sort_order)`,
				`CREATE INDEX IF NOT EXISTS idx_content_history_content_created ON content_history (content_id, created_at)`,
			}
			for _, stmt := range stmts {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			for _, idx := range []string{
				"idx_contents_page_status",
				"idx_products_active_order",
				"idx_content_history_content_created",
			} {
				if err := db.Exec("DROP INDEX IF EXISTS " + idx).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
