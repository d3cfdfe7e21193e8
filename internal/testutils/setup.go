package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Kyz7/backoffice/internal/cache"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/server"
	"github.com/Kyz7/backoffice/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	// Every connection to :memory: opens its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(database.Models()...)
	require.NoError(t, err, "Failed to migrate test database")

	database.DB = db
	cache.Permissions = nil
	return db
}

func SetupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := TestDB(t)
	return server.New(db, nil), db
}

// CreateTestUser creates a local identity. With isAdmin the admin role is
// granted but no admin record is created.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, isAdmin bool) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: hashedPassword,
		Provider: "local",
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user")

	if isAdmin {
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, Role: models.RoleAdmin}).Error)
	}
	return user
}

// CreateTestAdmin creates an identity with the admin role and a matching
// active admin record.
func CreateTestAdmin(t *testing.T, db *gorm.DB, email, adminCode string) (*models.User, *models.Admin) {
	user := CreateTestUser(t, db, email, "password123", true)

	admin := &models.Admin{
		UserID:    user.ID,
		AdminCode: adminCode,
		Name:      "Admin " + adminCode,
		Email:     email,
		Status:    models.AdminActive,
	}
	require.NoError(t, db.Create(admin).Error, "Failed to create test admin")
	return user, admin
}

func DenySection(t *testing.T, db *gorm.DB, adminID uuid.UUID, section models.Section) {
	perm := models.AdminPermission{AdminID: adminID, Section: section, CanAccess: false}
	require.NoError(t, db.Create(&perm).Error)
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateBrand(t *testing.T, db *gorm.DB, name string) *models.Brand {
	brand := &models.Brand{Name: name}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// CreateListing inserts a listing directly in the given status.
func CreateListing(t *testing.T, db *gorm.DB, name string, categoryID uuid.UUID, status models.ListingStatus) *models.Listing {
	listing := &models.Listing{
		ProductName: name,
		CategoryID:  categoryID,
		Status:      status,
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func GetAuthToken(t *testing.T, userID uuid.UUID, email string) string {
	token, err := utils.GenerateJWT(userID, email)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		for _, val := range v {
			rec.Header().Add(k, val)
		}
	}

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.Unmarshal(resp.Body.Bytes(), v)
	if err != nil {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response: %s", resp.Body.String())
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	if assert.NotNil(t, result.Error, "Expected error object") {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
