package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/routes"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
)

func TestDatabaseFailureIsOpaque(t *testing.T) {
	_, mock := testutil.SetupMockDB(t)
	r := routes.NewRouter(routes.Options{})

	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnError(errors.New("pq: connection to 10.0.0.5:5432 refused"))

	w := testutil.Request(r, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseFailureOnPublicContent(t *testing.T) {
	_, mock := testutil.SetupMockDB(t)
	r := routes.NewRouter(routes.Options{})

	mock.ExpectQuery(`SELECT (.+) FROM "contents"`).
		WillReturnError(errors.New("deadlock detected"))

	w := testutil.Request(r, http.MethodGet, "/api/public/content?pageSlug=home", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
}
