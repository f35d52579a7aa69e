package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testOptions = Options{
	AdminEmail:    "Owner@Uplift.test",
	AdminName:     "Owner",
	AdminPassword: "owner-pass-123",
}

func count(t *testing.T, db *gorm.DB, model interface{}, query ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if len(query) > 0 {
		q = q.Where(query[0], query[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, db, testOptions))
	require.NoError(t, Run(ctx, db, testOptions))

	assert.Equal(t, int64(1), count(t, db, &models.User{}))
	assert.Equal(t, int64(len(technologies)), count(t, db, &models.Technology{}))
	assert.Equal(t, int64(3), count(t, db, &models.Product{}))
	assert.Equal(t, int64(2), count(t, db, &models.TechStackSection{}))
	assert.Equal(t, int64(len(pageLayouts)*len(models.Languages)), count(t, db, &models.PageLayout{}))

	sections := int64(len(siteSections) * len(models.Languages))
	assert.Equal(t, 2*sections, count(t, db, &models.Content{}))
	assert.Equal(t, sections, count(t, db, &models.Content{}, "status = ?", models.StatusPublished))
	assert.Equal(t, sections, count(t, db, &models.Content{}, "status = ?", models.StatusDraft))
}

func TestRunPublishesOneVersionPerSection(t *testing.T) {
	db := testutil.SetupDB(t)
	require.NoError(t, Run(context.Background(), db, testOptions))

	type row struct {
		PageSlug    string
		SectionType string
		Language    string
		N           int64
	}
	var rows []row
	require.NoError(t, db.Model(&models.Content{}).
		Select("page_slug, section_type, language, COUNT(*) AS n").
		Where("status = ?", models.StatusPublished).
		Group("page_slug, section_type, language").
		Scan(&rows).Error)
	require.NotEmpty(t, rows)
	for _, r := range rows {
		assert.Equal(t, int64(1), r.N, "%s/%s/%s", r.PageSlug, r.SectionType, r.Language)
	}

	var hero models.Content
	require.NoError(t, db.Preload("Fields").Preload("Buttons").
		Where("page_slug = ? AND section_type = ? AND language = ? AND status = ?", "home", "hero", models.LanguageTH, models.StatusPublished).
		First(&hero).Error)
	assert.Equal(t, "เทคโนโลยีที่ยกระดับธุรกิจของคุณ", hero.Title)
	assert.Len(t, hero.Buttons, 2)
	assert.NotEmpty(t, hero.FieldMap()["subtitle"])
}

func TestGetOrCreateAdmin(t *testing.T) {
	db := testutil.SetupDB(t)

	admin, err := GetOrCreateAdmin(db, testOptions.AdminEmail, testOptions.AdminName, testOptions.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, "owner@uplift.test", admin.Email)
	assert.True(t, admin.HasAnyRole(models.RoleAdmin))
	assert.True(t, admin.HasAnyRole(models.RoleSuperAdmin))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(testOptions.AdminPassword)))
	assert.Equal(t, int64(1), count(t, db, &models.Account{}, "user_id = ?", admin.ID))

	again, err := GetOrCreateAdmin(db, "owner@uplift.test", "Someone else", "another-password")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestPromoteUser(t *testing.T) {
	db := testutil.SetupDB(t)
	user, _ := testutil.CreateUser(t, db, "writer@uplift.test", models.RoleUser)

	require.NoError(t, PromoteUser(db, "Writer@uplift.test", models.RoleAdmin))
	require.NoError(t, PromoteUser(db, "writer@uplift.test", models.RoleAdmin))
	assert.Equal(t, int64(2), count(t, db, &models.UserRole{}, "user_id = ?", user.ID))

	assert.Error(t, PromoteUser(db, "writer@uplift.test", models.Role("OWNER")))
	err := PromoteUser(db, "ghost@uplift.test", models.RoleAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
