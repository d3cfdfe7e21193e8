package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("Success - Empty is nil", func(t *testing.T) {
		assert.NoError(t, Errors{}.Err())
	})

	t.Run("Success - First message per field wins", func(t *testing.T) {
		errs := Errors{}
		errs.Required("title", "  ")
		errs.MaxLen("title", "  ", 1)
		errs.Add("title", "other")
		assert.Equal(t, "title is required", errs["title"])
	})

	t.Run("Success - MaxLen counts characters", func(t *testing.T) {
		errs := Errors{}
		errs.MaxLen("name", strings.Repeat("é", 100), 100)
		assert.NoError(t, errs.Err())

		errs.MaxLen("name", strings.Repeat("é", 101), 100)
		assert.Error(t, errs.Err())
	})

	t.Run("Success - Message is stable", func(t *testing.T) {
		errs := Errors{"b": "second", "a": "first"}
		assert.Equal(t, "validation failed: a: first; b: second", errs.Error())
	})
}

func TestFormats(t *testing.T) {
	assert.True(t, IsValidEmail("a@example.com"))
	assert.False(t, IsValidEmail("a@example"))
	assert.False(t, IsValidEmail("a b@example.com"))

	assert.True(t, IsValidAdminCode("ADM-001"))
	assert.True(t, IsValidAdminCode("ops_7"))
	assert.False(t, IsValidAdminCode("-ADM"))
	assert.False(t, IsValidAdminCode("A"))
	assert.False(t, IsValidAdminCode("ADM 001"))
}

func TestNoMarkup(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"Widget A", true},
		{"Salt & Pepper", true},
		{"5 > 3", true},
		{"size <10cm> pack", true},
		{`12" ruler`, true},
		{"Widget <Pro> 2", false},
		{"<b>Bold</b>", false},
		{"<script>alert(1)</script>Lamp", false},
	}
	for _, tt := range tests {
		errs := Errors{}
		errs.NoMarkup("product_name", tt.value)
		if tt.ok {
			assert.NoError(t, errs.Err(), tt.value)
		} else {
			assert.Equal(t, "product_name must not contain markup", errs["product_name"], tt.value)
		}
	}
}
