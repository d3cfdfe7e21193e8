package models

import (
	"gorm.io/gorm"
)

type ListingStatus string

const (
	StatusCPV       ListingStatus = "cpv"
	StatusAssign    ListingStatus = "assign"
	StatusWorklist  ListingStatus = "worklist"
	StatusNR        ListingStatus = "nr"
	StatusPR        ListingStatus = "pr"
	StatusNP        ListingStatus = "np"
	StatusPublished ListingStatus = "published"
)

// ListingStatuses is the pipeline order used by dashboards and stage listings.
var ListingStatuses = []ListingStatus{
	StatusCPV,
	StatusAssign,
	StatusWorklist,
	StatusNR,
	StatusPR,
	StatusNP,
	StatusPublished,
}

func (s ListingStatus) Valid() bool {
	for _, st := range ListingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func EnsureEnum(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'listing_status') THEN
				CREATE TYPE listing_status AS ENUM (
					'cpv',
					'assign',
					'worklist',
					'nr',
					'pr',
					'np',
					'published'
				);
			END IF;
		END
		$$;
	`).Error
}
