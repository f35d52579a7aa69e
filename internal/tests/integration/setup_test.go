package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/routes"
	"github.com/uplift-technology/uplift-backend/internal/seeds"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
	"gorm.io/gorm"
)

const (
	adminEmail    = "owner@uplift.test"
	adminPassword = "owner-pass-123"
)

// setupSite seeds a fresh in-memory site and returns the router with an
// admin token obtained through the login endpoint.
func setupSite(t *testing.T) (*gorm.DB, *gin.Engine, string) {
	t.Helper()
	db := testutil.SetupDB(t)

	// 1. Seed the demo site
	require.NoError(t, seeds.Run(context.Background(), db, seeds.Options{
		AdminEmail:    adminEmail,
		AdminName:     "Owner",
		AdminPassword: adminPassword,
	}))

	// 2. Sign in as the seeded admin
	r := routes.NewRouter(routes.Options{})
	w := testutil.Request(r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
	}
	testutil.Decode(t, w, &login)
	require.NotEmpty(t, login.Token)
	return db, r, login.Token
}
