package admin_test

import (
	"encoding/json"
	"testing"

	"github.com/Kyz7/backoffice/internal/admin"
	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdminHandler(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, actor := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	token := testutils.GetAuthToken(t, user.ID, user.Email)

	t.Run("Success - Provision creates identity, record and role", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/admins", map[string]interface{}{
			"email":      "New.Admin@Example.com",
			"password":   "password123",
			"admin_code": "ADM-002",
			"name":       "New Admin",
			"phone":      "+62 811 000",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.Code, resp.Body.String())

		var created models.User
		require.NoError(t, db.Where("email = ?", "new.admin@example.com").First(&created).Error)

		var record models.Admin
		require.NoError(t, db.Where("user_id = ?", created.ID).First(&record).Error)
		assert.Equal(t, "ADM-002", record.AdminCode)
		assert.Equal(t, models.AdminActive, record.Status)

		var roles int64
		db.Model(&models.UserRole{}).Where("user_id = ? AND role = ?", created.ID, models.RoleAdmin).Count(&roles)
		assert.Equal(t, int64(1), roles)

		var logs []models.AdminActivityLog
		require.NoError(t, db.Where("admin_id = ? AND action = ?", actor.ID, models.ActionAdminCreated).Find(&logs).Error)
		require.Len(t, logs, 1)
		var details map[string]interface{}
		require.NoError(t, json.Unmarshal(logs[0].Details, &details))
		assert.Equal(t, "lead@example.com", details["created_by"])
	})

	t.Run("Success - New admin can sign in", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/auth/login", map[string]interface{}{
			"email":    "new.admin@example.com",
			"password": "password123",
		}, "")
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Duplicate email", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/admins", map[string]interface{}{
			"email":      "new.admin@example.com",
			"password":   "password123",
			"admin_code": "ADM-003",
			"name":       "Other",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
	})

	t.Run("Error - Duplicate admin code creates nothing", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/admins", map[string]interface{}{
			"email":      "third@example.com",
			"password":   "password123",
			"admin_code": "ADM-002",
			"name":       "Third",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.Code)

		var count int64
		db.Model(&models.User{}).Where("email = ?", "third@example.com").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/api/admins", map[string]interface{}{
			"email":      "not-an-email",
			"password":   "short",
			"admin_code": "!",
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		details := result.Error.Details.(map[string]interface{})
		assert.Contains(t, details, "email")
		assert.Contains(t, details, "password")
		assert.Contains(t, details, "admin_code")
		assert.Contains(t, details, "name")
	})
}

func TestAdminStatusAndDelete(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, self := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	otherUser, other := testutils.CreateTestAdmin(t, db, "other@example.com", "ADM-002")
	token := testutils.GetAuthToken(t, user.ID, user.Email)
	otherToken := testutils.GetAuthToken(t, otherUser.ID, otherUser.Email)

	t.Run("Error - Cannot freeze self", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PATCH", "/api/admins/"+self.ID.String()+"/status", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Success - Freeze blocks the frozen admin", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PATCH", "/api/admins/"+other.ID.String()+"/status", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/api/dashboard", nil, otherToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Toggle back to active", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PATCH", "/api/admins/"+other.ID.String()+"/status", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var record models.Admin
		require.NoError(t, db.First(&record, "id = ?", other.ID).Error)
		assert.Equal(t, models.AdminActive, record.Status)
	})

	t.Run("Error - Cannot delete self", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/admins/"+self.ID.String(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Success - Delete clears grants and assignments", func(t *testing.T) {
		category := testutils.CreateCategory(t, db, "Tools")
		l := testutils.CreateListing(t, db, "Hammer", category.ID, models.StatusWorklist)
		require.NoError(t, db.Model(l).Update("assigned_to", other.ID).Error)
		testutils.DenySection(t, db, other.ID, models.SectionNR)

		resp, err := testutils.MakeRequest(app, "DELETE", "/api/admins/"+other.ID.String(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code, resp.Body.String())

		var count int64
		db.Model(&models.Admin{}).Where("id = ?", other.ID).Count(&count)
		assert.Equal(t, int64(0), count)
		db.Model(&models.AdminPermission{}).Where("admin_id = ?", other.ID).Count(&count)
		assert.Equal(t, int64(0), count)
		db.Model(&models.UserRole{}).Where("user_id = ?", otherUser.ID).Count(&count)
		assert.Equal(t, int64(0), count)

		var updated models.Listing
		require.NoError(t, db.First(&updated, "id = ?", l.ID).Error)
		assert.Nil(t, updated.AssignedTo)

		resp, err = testutils.MakeRequest(app, "GET", "/api/dashboard", nil, otherToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Error - Unknown admin", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/api/admins/"+uuid.NewString(), nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}

func TestPermissionHandlers(t *testing.T) {
	app, db := testutils.SetupTestApp(t)

	user, _ := testutils.CreateTestAdmin(t, db, "lead@example.com", "ADM-001")
	targetUser, target := testutils.CreateTestAdmin(t, db, "target@example.com", "ADM-002")
	token := testutils.GetAuthToken(t, user.ID, user.Email)
	targetToken := testutils.GetAuthToken(t, targetUser.ID, targetUser.Email)

	t.Run("Success - Missing rows allow everything", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/api/admins/"+target.ID.String()+"/permissions", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		perms := result.Data.(map[string]interface{})
		assert.Len(t, perms, len(models.Sections))
		for _, allowed := range perms {
			assert.Equal(t, true, allowed)
		}
	})

	t.Run("Success - Replace denies sections", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/admins/"+target.ID.String()+"/permissions", map[string]interface{}{
			"permissions": map[string]bool{"PR": false, "NR": true},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code, resp.Body.String())

		var rows int64
		db.Model(&models.AdminPermission{}).Where("admin_id = ?", target.ID).Count(&rows)
		assert.Equal(t, int64(2), rows)

		resp, err = testutils.MakeRequest(app, "GET", "/api/pipeline/pr", nil, targetToken)
		assert.NoError(t, err)
		assert.Equal(t, 403, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/api/pipeline/nr", nil, targetToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Success - Replace discards earlier rows", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/admins/"+target.ID.String()+"/permissions", map[string]interface{}{
			"permissions": map[string]bool{},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/api/pipeline/pr", nil, targetToken)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Unknown section", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "PUT", "/api/admins/"+target.ID.String()+"/permissions", map[string]interface{}{
			"permissions": map[string]bool{"Billing": false},
		}, token)
		assert.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Success - Activity lists the actor's entries", func(t *testing.T) {
		var lead models.Admin
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&lead).Error)

		resp, err := testutils.MakeRequest(app, "GET", "/api/admins/"+lead.ID.String()+"/activity", nil, token)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data, 2)
	})
}

func TestSeedBootstrapAdmin(t *testing.T) {
	db := testutils.TestDB(t)

	cfg := config.BootstrapAdmin{
		Email:     "root@example.com",
		Password:  "password123",
		AdminCode: "ADM-000",
		Name:      "Root",
	}

	t.Run("Success - Creates the first admin", func(t *testing.T) {
		require.NoError(t, admin.SeedBootstrapAdmin(t.Context(), cfg))

		var count int64
		db.Model(&models.Admin{}).Where("email = ?", cfg.Email).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Success - Second run leaves it alone", func(t *testing.T) {
		require.NoError(t, admin.SeedBootstrapAdmin(t.Context(), cfg))

		var count int64
		db.Model(&models.Admin{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Success - Disabled without credentials", func(t *testing.T) {
		assert.NoError(t, admin.SeedBootstrapAdmin(t.Context(), config.BootstrapAdmin{}))
	})
}
