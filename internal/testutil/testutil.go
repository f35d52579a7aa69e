// Package testutil builds an in-memory site database and sessions for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/migrations"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const Password = "password123"

// SetupConfig installs a deterministic AppConfig.
func SetupConfig() {
	config.AppConfig = &config.Config{
		Env:               "test",
		JWTSecret:         "test_secret_key_12345",
		SessionCookieName: "uplift_session",
		SessionTTL:        time.Hour,
		FrontendURL:       "http://localhost:3000",
		SiteURL:           "https://uplift.test",
		PageCacheTTL:      time.Minute,
		DefaultLanguage:   "en",
	}
}

// SetupDB opens a private in-memory SQLite database, migrates it and installs
// it as database.DB.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()
	SetupConfig()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))

	database.DB = db
	database.Redis = nil

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupMockDB installs a postgres-dialect gorm handle backed by sqlmock as
// database.DB.
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	SetupConfig()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	database.DB = db
	database.Redis = nil
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, mock
}

// SetupRedis backs database.Redis with an in-process server for the test.
func SetupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	database.Redis = client
	t.Cleanup(func() {
		database.Redis = nil
		_ = client.Close()
	})
	return srv
}

// CreateUser stores an active user with the given roles and a credentials
// account for Password, and returns it with a session token.
func CreateUser(t *testing.T, db *gorm.DB, email string, roles ...models.Role) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: string(hash),
		IsActive:     true,
	}
	user.Profile = &models.Profile{ID: uuid.New().String(), UserID: user.ID, DisplayName: user.Name, PreferredLanguage: models.LanguageEN}
	for _, r := range roles {
		user.Roles = append(user.Roles, models.UserRole{ID: uuid.New().String(), UserID: user.ID, Role: r})
	}
	user.Accounts = []models.Account{{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		Provider:          models.ProviderCredentials,
		ProviderAccountID: email,
	}}
	require.NoError(t, db.Create(&user).Error)

	token, _, err := utils.GenerateToken(user.ID, user.RoleNames())
	require.NoError(t, err)
	return &user, token
}

// Request performs a JSON request against r. An empty token sends no session.
func Request(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return Serve(r, req)
}

// Serve records the response of r to req.
func Serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a recorded JSON body into dest.
func Decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}
