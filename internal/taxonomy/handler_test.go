package taxonomy_test

import (
	"testing"

	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandlers(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, _ := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	token := testutils.GetAuthToken(t, user.ID, user.Email)

	t.Run("Success - Create category", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/categories", map[string]interface{}{
			"name": "Electronics",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code, resp.Body.String())
	})

	t.Run("Error - Duplicate name ignores case", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/categories", map[string]interface{}{
			"name": "electronics",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
	})

	t.Run("Error - Empty name", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/categories", map[string]interface{}{
			"name": "  ",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Success - List with listing counts", func(t *testing.T) {
		var cat models.Category
		require.NoError(t, db.Where("name = ?", "Electronics").First(&cat).Error)
		testutils.CreateListing(t, db, "Radio", cat.ID, models.StatusCPV)

		resp, err := testutils.MakeRequest(app, "GET", "/api/categories", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		items := result.Data.([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, float64(1), items[0].(map[string]interface{})["listings"])
	})

	t.Run("Success - Rename", func(t *testing.T) {
		var cat models.Category
		require.NoError(t, db.Where("name = ?", "Electronics").First(&cat).Error)

		resp, err := testutils.MakeRequest(app, "PUT", "/api/categories/"+cat.ID.String(), map[string]interface{}{
			"name": "Consumer Electronics",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})
}

func TestDeleteWithReplacement(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, admin := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	token := testutils.GetAuthToken(t, user.ID, user.Email)

	old := testutils.CreateCategory(t, db, "Gadgets")
	target := testutils.CreateCategory(t, db, "Devices")
	empty := testutils.CreateCategory(t, db, "Unused")

	live := testutils.CreateListing(t, db, "Phone", old.ID, models.StatusCPV)
	gone := testutils.CreateListing(t, db, "Pager", old.ID, models.StatusNR)
	require.NoError(t, db.Delete(gone).Error)

	t.Run("Success - Unused category deletes directly", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+empty.ID.String(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Used category needs a replacement", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+old.ID.String(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		require.NotNil(t, result.Error)
		assert.Equal(t, "REPLACEMENT_REQUIRED", result.Error.Code)
		assert.Equal(t, float64(2), result.Error.Details.(map[string]interface{})["listings"])
	})

	t.Run("Error - Replacement is the same category", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+old.ID.String(), map[string]interface{}{
			"replacement_id": old.ID,
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Error - Replacement does not exist", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+old.ID.String()+"?replacement_id="+uuid.NewString(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Success - Listings move to the replacement", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+old.ID.String(), map[string]interface{}{
			"replacement_id": target.ID,
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code, resp.Body.String())

		for _, id := range []uuid.UUID{live.ID, gone.ID} {
			var l models.Listing
			require.NoError(t, db.Unscoped().First(&l, "id = ?", id).Error)
			assert.Equal(t, target.ID, l.CategoryID)
		}

		var count int64
		db.Model(&models.Category{}).Where("id = ?", old.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		db.Model(&models.AdminActivityLog{}).
			Where("admin_id = ? AND action = ?", admin.ID, models.ActionCategoryDeleted).
			Count(&count)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Error - Unknown category", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/categories/"+uuid.NewString(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestBrandDelete(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, _ := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	token := testutils.GetAuthToken(t, user.ID, user.Email)

	category := testutils.CreateCategory(t, db, "Shoes")
	oldBrand := testutils.CreateBrand(t, db, "Oldco")
	newBrand := testutils.CreateBrand(t, db, "Newco")

	l := testutils.CreateListing(t, db, "Sneaker", category.ID, models.StatusCPV)
	require.NoError(t, db.Model(l).Update("brand_id", oldBrand.ID).Error)

	resp, err := testutils.MakeRequest(app, "DELETE", "/api/brands/"+oldBrand.ID.String(), nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 409, resp.Code)

	resp, err = testutils.MakeRequest(app, "DELETE", "/api/brands/"+oldBrand.ID.String()+"?replacement_id="+newBrand.ID.String(), nil, token)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var updated models.Listing
	require.NoError(t, db.First(&updated, "id = ?", l.ID).Error)
	require.NotNil(t, updated.BrandID)
	assert.Equal(t, newBrand.ID, *updated.BrandID)
}
