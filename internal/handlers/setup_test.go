package handlers_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/routes"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
	"gorm.io/gorm"
)

type env struct {
	db         *gorm.DB
	r          *gin.Engine
	admin      *models.User
	adminToken string
	superToken string
	user       *models.User
	userToken  string
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupDB(t)
	e := &env{db: db, r: routes.NewRouter(routes.Options{})}
	e.admin, e.adminToken = testutil.CreateUser(t, db, "admin@uplift.test", models.RoleAdmin)
	_, e.superToken = testutil.CreateUser(t, db, "root@uplift.test", models.RoleAdmin, models.RoleSuperAdmin)
	e.user, e.userToken = testutil.CreateUser(t, db, "member@uplift.test", models.RoleUser)
	return e
}
