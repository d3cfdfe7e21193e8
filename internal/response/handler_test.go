package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page, limit, offset := Pagination(c, 50, 200)
		return c.JSON(fiber.Map{"page": page, "limit": limit, "offset": offset})
	})

	tests := []struct {
		query               string
		page, limit, offset int
	}{
		{"", 1, 50, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=-1&limit=0", 1, 50, 0},
		{"?limit=1000", 1, 200, 0},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
		require.NoError(t, err)

		var got map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, tt.page, got["page"], tt.query)
		assert.Equal(t, tt.limit, got["limit"], tt.query)
		assert.Equal(t, tt.offset, got["offset"], tt.query)
	}
}

func TestCalculateMeta(t *testing.T) {
	meta := CalculateMeta(2, 10, 21)
	assert.Equal(t, int64(3), meta.TotalPages)
	assert.Equal(t, int64(21), meta.Total)
}

func TestRedirectDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/401", func(c *fiber.Ctx) error { return Unauthorized(c, "no") })
	app.Get("/403", func(c *fiber.Ctx) error { return Forbidden(c, "no") })

	for path, want := range map[string]string{"/401": LoginRedirect, "/403": UnauthorizedRedirect} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)

		var body StandardResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, want, body.Error.Details.(map[string]interface{})["redirect"])
	}
}
