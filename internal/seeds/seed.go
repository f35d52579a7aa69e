package seeds

import (
	"context"

	"gorm.io/gorm"
)

type Options struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// Run seeds the admin user and the demo site. Every step is idempotent.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	admin, err := GetOrCreateAdmin(db, opts.AdminEmail, opts.AdminName, opts.AdminPassword)
	if err != nil {
		return err
	}

	techIDs, err := SeedTechnologies(db)
	if err != nil {
		return err
	}
	if err := SeedProducts(db); err != nil {
		return err
	}
	if err := SeedTechStack(db, techIDs); err != nil {
		return err
	}
	if err := SeedContent(ctx, db, admin.ID); err != nil {
		return err
	}
	return SeedPages(db, admin.ID)
}
