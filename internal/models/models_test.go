package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingStatusValid(t *testing.T) {
	for _, s := range ListingStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ListingStatus("draft").Valid())
	assert.Len(t, ListingStatuses, 7)
}

func TestSections(t *testing.T) {
	assert.Len(t, Sections, 13)
	assert.True(t, Section("Deleted Listings").Valid())
	assert.False(t, Section("deleted listings").Valid())
}

func TestNavigation(t *testing.T) {
	t.Run("Success - Every page maps to a known section", func(t *testing.T) {
		seen := map[string]bool{}
		for _, p := range Pages {
			assert.True(t, p.Section.Valid(), p.Path)
			assert.False(t, seen[p.Path], "duplicate path %s", p.Path)
			seen[p.Path] = true
		}
	})

	t.Run("Success - Lookup", func(t *testing.T) {
		page, ok := PageFor("/nr")
		assert.True(t, ok)
		assert.Equal(t, SectionNR, page.Section)

		_, ok = PageFor("/billing")
		assert.False(t, ok)
	})

	t.Run("Success - Public paths", func(t *testing.T) {
		assert.True(t, IsPublicPath("/auth"))
		assert.True(t, IsPublicPath("/unauthorized"))
		assert.False(t, IsPublicPath("/"))
	})
}
