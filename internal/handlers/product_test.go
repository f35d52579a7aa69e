package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
)

type productResponse struct {
	Product models.Product `json:"product"`
}

type productList struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

func createProduct(t *testing.T, e *env, body map[string]interface{}) models.Product {
	t.Helper()
	w := testutil.Request(e.r, http.MethodPost, "/api/products", body, e.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp productResponse
	testutil.Decode(t, w, &resp)
	return resp.Product
}

func TestProductAPI_Create(t *testing.T) {
	e := setup(t)

	p := createProduct(t, e, map[string]interface{}{
		"name":     "Uplift HR Suite",
		"tagline":  "People operations",
		"features": []string{"Payroll", "Leave", "Attendance"},
		"sections": []map[string]interface{}{
			{
				"type":  "benefits",
				"title": "Why HR Suite",
				"cards": []map[string]string{{"title": "Fast"}, {"title": "Secure"}},
			},
		},
		"images": []map[string]string{{"url": "https://cdn.uplift.test/hr.png", "alt": "HR"}},
	})

	assert.Equal(t, "uplift-hr-suite", p.Slug)
	assert.Equal(t, models.LanguageEN, p.Language)
	assert.Equal(t, 3, p.FeatureCount)
	assert.Equal(t, len(p.Features), p.FeatureCount)
	assert.True(t, p.IsActive)

	w := testutil.Request(e.r, http.MethodGet, "/api/products/uplift-hr-suite", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got productResponse
	testutil.Decode(t, w, &got)
	assert.Equal(t, []string{"Payroll", "Leave", "Attendance"}, []string(got.Product.Features))
	require.Len(t, got.Product.Sections, 1)
	assert.Len(t, got.Product.Sections[0].Cards, 2)
	assert.Equal(t, "Fast", got.Product.Sections[0].Cards[0].Title)
	require.Len(t, got.Product.Images, 1)
}

func TestProductAPI_ThaiNameGetsGeneratedSlug(t *testing.T) {
	e := setup(t)

	p := createProduct(t, e, map[string]interface{}{
		"name":     "ระบบบริหารงานบุคคล",
		"language": "th",
	})
	assert.True(t, strings.HasPrefix(p.Slug, "product-"), p.Slug)
	assert.Equal(t, models.LanguageTH, p.Language)
	assert.Equal(t, 0, p.FeatureCount)
}

func TestProductAPI_SlugConflicts(t *testing.T) {
	e := setup(t)

	createProduct(t, e, map[string]interface{}{"name": "Insight", "slug": "insight"})
	other := createProduct(t, e, map[string]interface{}{"name": "Payroll", "slug": "payroll"})

	w := testutil.Request(e.r, http.MethodPost, "/api/products", map[string]interface{}{"name": "Insight"}, e.adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = testutil.Request(e.r, http.MethodPut, "/api/products/"+other.ID, map[string]interface{}{
		"name": "Payroll",
		"slug": "insight",
	}, e.adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// keeping its own slug is fine
	w = testutil.Request(e.r, http.MethodPut, "/api/products/"+other.ID, map[string]interface{}{
		"name":     "Payroll Cloud",
		"slug":     "payroll",
		"features": []string{"Tax"},
	}, e.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated productResponse
	testutil.Decode(t, w, &updated)
	assert.Equal(t, "Payroll Cloud", updated.Product.Name)
	assert.Equal(t, 1, updated.Product.FeatureCount)

	w = testutil.Request(e.r, http.MethodPost, "/api/products", map[string]interface{}{"name": "Bad", "slug": "Not A Slug"}, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductAPI_UpdateReplacesChildren(t *testing.T) {
	e := setup(t)

	p := createProduct(t, e, map[string]interface{}{
		"name": "Insight",
		"sections": []map[string]interface{}{
			{"type": "overview", "cards": []map[string]string{{"title": "A"}}},
			{"type": "pricing"},
		},
	})

	w := testutil.Request(e.r, http.MethodPut, "/api/products/"+p.ID, map[string]interface{}{
		"name":     "Insight",
		"sections": []map[string]interface{}{{"type": "faq"}},
	}, e.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sections []models.ProductSection
	require.NoError(t, e.db.Where("product_id = ?", p.ID).Find(&sections).Error)
	require.Len(t, sections, 1)
	assert.Equal(t, "faq", sections[0].Type)

	var cards int64
	e.db.Model(&models.ProductCard{}).Count(&cards)
	assert.Zero(t, cards)
}

func TestProductAPI_Visibility(t *testing.T) {
	e := setup(t)

	createProduct(t, e, map[string]interface{}{"name": "Visible"})
	hidden := createProduct(t, e, map[string]interface{}{"name": "Hidden", "isActive": false})
	createProduct(t, e, map[string]interface{}{"name": "Thai", "language": "th"})
	assert.False(t, hidden.IsActive)

	var list productList
	w := testutil.Request(e.r, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &list)
	assert.Equal(t, 2, list.Total)

	w = testutil.Request(e.r, http.MethodGet, "/api/products?language=th", nil, "")
	testutil.Decode(t, w, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Thai", list.Products[0].Name)

	// all=true is ignored for anonymous callers
	w = testutil.Request(e.r, http.MethodGet, "/api/products?all=true", nil, "")
	testutil.Decode(t, w, &list)
	assert.Equal(t, 2, list.Total)

	w = testutil.Request(e.r, http.MethodGet, "/api/products?all=true", nil, e.adminToken)
	testutil.Decode(t, w, &list)
	assert.Equal(t, 3, list.Total)

	assert.Equal(t, http.StatusNotFound, testutil.Request(e.r, http.MethodGet, "/api/products/hidden", nil, "").Code)
	assert.Equal(t, http.StatusOK, testutil.Request(e.r, http.MethodGet, "/api/products/hidden", nil, e.adminToken).Code)

	w = testutil.Request(e.r, http.MethodPatch, "/api/products/"+hidden.ID, map[string]bool{"isActive": true}, e.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, testutil.Request(e.r, http.MethodGet, "/api/products/hidden", nil, "").Code)

	w = testutil.Request(e.r, http.MethodPatch, "/api/products/"+hidden.ID, map[string]interface{}{}, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, testutil.Request(e.r, http.MethodGet, "/api/products?language=fr", nil, "").Code)
}

func TestProductAPI_Delete(t *testing.T) {
	e := setup(t)

	p := createProduct(t, e, map[string]interface{}{
		"name":     "Insight",
		"sections": []map[string]interface{}{{"type": "overview", "cards": []map[string]string{{"title": "A"}}}},
		"images":   []map[string]string{{"url": "https://cdn.uplift.test/a.png"}},
	})

	w := testutil.Request(e.r, http.MethodDelete, "/api/products/"+p.ID, nil, e.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	for _, model := range []interface{}{&models.Product{}, &models.ProductSection{}, &models.ProductCard{}, &models.Image{}} {
		var n int64
		e.db.Model(model).Count(&n)
		assert.Zero(t, n)
	}

	var audits int64
	e.db.Model(&models.AuditLog{}).Where("action = ?", models.ActionDeleteProduct).Count(&audits)
	assert.Equal(t, int64(1), audits)

	assert.Equal(t, http.StatusNotFound, testutil.Request(e.r, http.MethodDelete, "/api/products/"+p.ID, nil, e.adminToken).Code)
	assert.Equal(t, http.StatusNotFound, testutil.Request(e.r, http.MethodPut, "/api/products/missing", map[string]string{"name": "x"}, e.adminToken).Code)
}

func TestProductAPI_RequiresAdmin(t *testing.T) {
	e := setup(t)

	body := map[string]string{"name": "Nope"}
	assert.Equal(t, http.StatusUnauthorized, testutil.Request(e.r, http.MethodPost, "/api/products", body, "").Code)
	assert.Equal(t, http.StatusForbidden, testutil.Request(e.r, http.MethodPost, "/api/products", body, e.userToken).Code)
	assert.Equal(t, http.StatusForbidden, testutil.Request(e.r, http.MethodDelete, "/api/products/any", nil, e.userToken).Code)
}
