package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kyz7/backoffice/internal/activity"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/metrics"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("listing not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAdminFrozen       = errors.New("admin is frozen")
	ErrEmptyBatch        = errors.New("no listings selected")
)

// TransitionError reports a move the listing's current status does not
// allow. It matches ErrInvalidTransition.
type TransitionError struct {
	ListingID uuid.UUID
	From      models.ListingStatus
	To        models.ListingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("listing %s cannot move from %s to %s", e.ListingID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

type Decision string

const (
	DecisionPass   Decision = "pass"
	DecisionReject Decision = "reject"
)

type ValidateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// transition applies from -> to with a status-guarded update so a stale or
// concurrent transition is rejected instead of overwriting. Soft-deleted
// listings never match.
func transition(tx *gorm.DB, id uuid.UUID, from, to models.ListingStatus, extra map[string]interface{}) (*models.Listing, error) {
	if !CanTransition(from, to) {
		return nil, &TransitionError{ListingID: id, From: from, To: to}
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := tx.Model(&models.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}

	var listing models.Listing
	if result.RowsAffected == 0 {
		if err := tx.First(&listing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, &TransitionError{ListingID: id, From: listing.Status, To: to}
	}

	if err := tx.Preload("Category").Preload("Brand").Preload("Assignee").First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(from), string(to), 1)
	return &listing, nil
}

// ValidateListing completes CPV: the listing gets its title and description
// and moves on to assignment.
func ValidateListing(ctx context.Context, id uuid.UUID, in ValidateInput) (*models.Listing, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	errs := validation.Errors{}
	errs.Required("title", title)
	errs.NoMarkup("title", title)
	errs.NoMarkup("description", description)
	errs.MaxLen("title", title, models.MaxTitleLen)
	errs.MaxLen("description", description, models.MaxDescriptionLen)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return transition(database.DB.WithContext(ctx), id, models.StatusCPV, models.StatusAssign, map[string]interface{}{
		"title":       title,
		"description": description,
	})
}

// AssignListing hands the listing to an active admin and puts it on the
// worklist.
func AssignListing(ctx context.Context, id, assigneeID, actorAdminID uuid.UUID) (*models.Listing, error) {
	db := database.DB.WithContext(ctx)

	var assignee models.Admin
	if err := db.First(&assignee, "id = ?", assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if assignee.Status != models.AdminActive {
		return nil, ErrAdminFrozen
	}

	listing, err := transition(db, id, models.StatusAssign, models.StatusWorklist, map[string]interface{}{
		"assigned_to": assignee.ID,
	})
	if err != nil {
		return nil, err
	}

	activity.Record(ctx, actorAdminID, models.ActionListingAssigned, models.ActivityAssign, activity.Details{
		"listing_id":  listing.ID,
		"assigned_to": assignee.ID,
		"admin_code":  assignee.AdminCode,
	})

	return listing, nil
}

func CompleteListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return transition(database.DB.WithContext(ctx), id, models.StatusWorklist, models.StatusNR, nil)
}

// ReviewListing records the NR decision: pass moves to pr, reject to np.
func ReviewListing(ctx context.Context, id uuid.UUID, decision Decision, actorAdminID uuid.UUID) (*models.Listing, error) {
	var (
		to     models.ListingStatus
		action string
	)
	switch decision {
	case DecisionPass:
		to, action = models.StatusPR, models.ActionListingPassed
	case DecisionReject:
		to, action = models.StatusNP, models.ActionListingRejected
	default:
		return nil, validation.Errors{"decision": "decision must be pass or reject"}
	}

	listing, err := transition(database.DB.WithContext(ctx), id, models.StatusNR, to, nil)
	if err != nil {
		return nil, err
	}

	activity.Record(ctx, actorAdminID, action, models.ActivityNR, activity.Details{
		"listing_id": listing.ID,
		"new_status": listing.Status,
	})

	return listing, nil
}

// ResubmitListing sends a rejected listing back to review.
func ResubmitListing(ctx context.Context, id uuid.UUID, actorAdminID uuid.UUID) (*models.Listing, error) {
	listing, err := transition(database.DB.WithContext(ctx), id, models.StatusNP, models.StatusNR, nil)
	if err != nil {
		return nil, err
	}

	activity.Record(ctx, actorAdminID, models.ActionListingResubmitted, models.ActivityNP, activity.Details{
		"listing_id": listing.ID,
		"new_status": listing.Status,
	})

	return listing, nil
}

// PublishListings publishes a batch atomically: either every selected
// listing is live and in pr and all move to published, or none move.
func PublishListings(ctx context.Context, ids []uuid.UUID, actorAdminID uuid.UUID) ([]uuid.UUID, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listings []models.Listing
		if err := tx.Select("id", "status").Where("id IN ?", ids).Find(&listings).Error; err != nil {
			return err
		}
		if len(listings) != len(ids) {
			return ErrNotFound
		}
		for _, l := range listings {
			if !CanTransition(l.Status, models.StatusPublished) {
				return &TransitionError{ListingID: l.ID, From: l.Status, To: models.StatusPublished}
			}
		}

		result := tx.Model(&models.Listing{}).
			Where("id IN ? AND status = ?", ids, models.StatusPR).
			Update("status", models.StatusPublished)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return fmt.Errorf("%w: batch changed while publishing", ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(models.StatusPR), string(models.StatusPublished), len(ids))
	activity.Record(ctx, actorAdminID, models.ActionListingsPublished, models.ActivityPR, activity.Details{
		"count":       len(ids),
		"listing_ids": ids,
	})

	return ids, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
