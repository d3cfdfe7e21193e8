package pipeline

import "github.com/Kyz7/backoffice/internal/models"

// edges is the complete transition table. np -> nr is the only backward
// edge; published is terminal.
var edges = map[models.ListingStatus][]models.ListingStatus{
	models.StatusCPV:      {models.StatusAssign},
	models.StatusAssign:   {models.StatusWorklist},
	models.StatusWorklist: {models.StatusNR},
	models.StatusNR:       {models.StatusPR, models.StatusNP},
	models.StatusNP:       {models.StatusNR},
	models.StatusPR:       {models.StatusPublished},
}

func CanTransition(from, to models.ListingStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

func NextStatuses(from models.ListingStatus) []models.ListingStatus {
	out := make([]models.ListingStatus, len(edges[from]))
	copy(out, edges[from])
	return out
}
