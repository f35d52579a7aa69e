package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

const sqlitePrefix = "sqlite:"

// Open builds a gorm handle for a postgres URL or a "sqlite:<path>" DSN.
func Open(dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), gormCfg)
		if err != nil {
			return nil, err
		}
		// sqlite serialises writers; one connection avoids "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Connect opens the configured database into DB.
func Connect() {
	dsn := config.AppConfig.DatabaseURL
	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	db, err := Open(dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	DB = db
	logger.Info().Str("dialect", db.Dialector.Name()).Msg("Connected to database")
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.Account{},
		&models.Content{},
		&models.ContentField{},
		&models.ContentButton{},
		&models.ContentHistory{},
		&models.Product{},
		&models.ProductSection{},
		&models.ProductCard{},
		&models.Image{},
		&models.Technology{},
		&models.TechStackSection{},
		&models.TechStackSectionItem{},
		&models.PageLayout{},
		&models.AuditLog{},
	}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate table for %T: %w", m, err)
		}
	}
	return nil
}

// IsPostgres reports whether row locks and other postgres-only SQL apply.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
