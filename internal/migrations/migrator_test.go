package migrations

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.New().String()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func appliedIDs(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&MigrationRecord{}).Order("id ASC").Pluck("id", &ids).Error)
	return ids
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	assert.Equal(t, []string{"001_single_published_content", "002_add_lookup_indexes"}, appliedIDs(t, db))
	assert.True(t, db.Migrator().HasIndex("contents", "idx_contents_single_published"))
	assert.True(t, db.Migrator().HasIndex("products", "idx_products_active_order"))
}

func TestRollback(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Migrate(db))
	m := NewMigrator(db)

	id, err := m.Rollback()
	require.NoError(t, err)
	assert.Equal(t, "002_add_lookup_indexes", id)
	assert.False(t, db.Migrator().HasIndex("products", "idx_products_active_order"))

	id, err = m.Rollback()
	require.NoError(t, err)
	assert.Equal(t, "001_single_published_content", id)
	assert.False(t, db.Migrator().HasIndex("contents", "idx_contents_single_published"))

	id, err = m.Rollback()
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, appliedIDs(t, db))

	require.NoError(t, m.Run())
	assert.Len(t, appliedIDs(t, db), 2)
}

func TestRunChecksDependencies(t *testing.T) {
	db := openDB(t)
	require.NoError(t, database.AutoMigrate(db))

	m := &Migrator{db: db, migrations: []Migration{Migration002AddLookupIndexes()}}
	err := m.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depends on 001_single_published_content")
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)

	m := &Migrator{db: db, migrations: []Migration{{
		ID:   "999_broken",
		Name: "Broken",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE INDEX idx_missing ON no_such_table (id)").Error
		},
	}}}
	require.Error(t, m.Run())
	assert.Empty(t, appliedIDs(t, db))
}
