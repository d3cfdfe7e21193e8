package pipeline

import (
	"testing"

	"github.com/Kyz7/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]models.ListingStatus]bool{
		{models.StatusCPV, models.StatusAssign}:      true,
		{models.StatusAssign, models.StatusWorklist}: true,
		{models.StatusWorklist, models.StatusNR}:     true,
		{models.StatusNR, models.StatusPR}:           true,
		{models.StatusNR, models.StatusNP}:           true,
		{models.StatusNP, models.StatusNR}:           true,
		{models.StatusPR, models.StatusPublished}:    true,
	}

	for _, from := range models.ListingStatuses {
		for _, to := range models.ListingStatuses {
			want := allowed[[2]models.ListingStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNextStatuses(t *testing.T) {
	t.Run("Success - Review branches", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]models.ListingStatus{models.StatusPR, models.StatusNP},
			NextStatuses(models.StatusNR))
	})

	t.Run("Success - Published is terminal", func(t *testing.T) {
		assert.Empty(t, NextStatuses(models.StatusPublished))
	})

	t.Run("Success - Result is a copy", func(t *testing.T) {
		next := NextStatuses(models.StatusCPV)
		next[0] = models.StatusPublished
		assert.True(t, CanTransition(models.StatusCPV, models.StatusAssign))
	})
}
