package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/Kyz7/backoffice/internal/activity"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("listing not found")
	ErrNotDeleted      = errors.New("listing is not deleted")
	ErrConfirmRequired = errors.New("purge requires confirmation")
)

type CreateInput struct {
	ProductName string `json:"product_name"`
	CategoryID  string `json:"category_id"`
	BrandID     string `json:"brand_id"`
}

// CreateListing starts a listing at cpv.
func CreateListing(ctx context.Context, in CreateInput, createdBy, actorAdminID uuid.UUID) (*models.Listing, error) {
	db := database.DB.WithContext(ctx)
	name := strings.TrimSpace(in.ProductName)

	errs := validation.Errors{}
	errs.Required("product_name", name)
	errs.NoMarkup("product_name", name)
	errs.MaxLen("product_name", name, models.MaxProductNameLen)

	categoryID, err := uuid.Parse(strings.TrimSpace(in.CategoryID))
	if err != nil {
		errs.Add("category_id", "category_id must be a valid category")
	} else {
		found, err := exists(db, &models.Category{}, categoryID)
		if err != nil {
			return nil, err
		}
		if !found {
			errs.Add("category_id", "category does not exist")
		}
	}

	var brandID *uuid.UUID
	if raw := strings.TrimSpace(in.BrandID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Add("brand_id", "brand does not exist")
		} else {
			found, err := exists(db, &models.Brand{}, id)
			if err != nil {
				return nil, err
			}
			if found {
				brandID = &id
			} else {
				errs.Add("brand_id", "brand does not exist")
			}
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	listing := models.Listing{
		ProductName: name,
		CategoryID:  categoryID,
		BrandID:     brandID,
		Status:      models.StatusCPV,
		CreatedBy:   createdBy,
	}
	if err := db.Create(&listing).Error; err != nil {
		return nil, err
	}

	activity.Record(ctx, actorAdminID, models.ActionListingCreated, models.ActivityCreateListing, activity.Details{
		"listing_id":   listing.ID,
		"product_name": listing.ProductName,
	})

	return GetListing(ctx, listing.ID)
}

func exists(db *gorm.DB, model interface{}, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetListing returns a live listing.
func GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := database.DB.WithContext(ctx).
		Preload("Category").Preload("Brand").Preload("Assignee").
		First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// SoftDelete hides the listing from every stage view. Its status is kept so
// a restore puts it back where it was.
func SoftDelete(ctx context.Context, id, actorAdminID uuid.UUID) error {
	result := database.DB.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	activity.Record(ctx, actorAdminID, models.ActionListingDeleted, "", activity.Details{"listing_id": id})
	return nil
}

func ListDeleted(ctx context.Context, limit, offset int) ([]models.Listing, int64, error) {
	query := database.DB.WithContext(ctx).Unscoped().Model(&models.Listing{}).Where("deleted_at IS NOT NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.Listing
	err := query.Preload("Category").Preload("Brand").
		Order("deleted_at DESC").
		Limit(limit).Offset(offset).
		Find(&listings).Error
	return listings, total, err
}

func Restore(ctx context.Context, id, actorAdminID uuid.UUID) (*models.Listing, error) {
	db := database.DB.WithContext(ctx)

	result := db.Unscoped().Model(&models.Listing{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, missingOrLive(db, id)
	}

	activity.Record(ctx, actorAdminID, models.ActionListingRestored, "", activity.Details{"listing_id": id})
	return GetListing(ctx, id)
}

// Purge permanently removes a soft-deleted listing.
func Purge(ctx context.Context, id uuid.UUID, confirmed bool, actorAdminID uuid.UUID) error {
	if !confirmed {
		return ErrConfirmRequired
	}

	db := database.DB.WithContext(ctx)
	result := db.Unscoped().Where("id = ? AND deleted_at IS NOT NULL", id).Delete(&models.Listing{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return missingOrLive(db, id)
	}

	activity.Record(ctx, actorAdminID, models.ActionListingPurged, "", activity.Details{"listing_id": id})
	return nil
}

func missingOrLive(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Unscoped().Model(&models.Listing{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotDeleted
}

type SearchQuery struct {
	Term   string
	Status models.ListingStatus
	Limit  int
	Offset int
}

// Search matches the term case-insensitively against product name, title
// and description of live listings.
func Search(ctx context.Context, q SearchQuery) ([]models.Listing, int64, error) {
	query := database.DB.WithContext(ctx).Model(&models.Listing{})

	if term := strings.ToLower(strings.TrimSpace(q.Term)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"LOWER(product_name) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like,
		)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.Listing
	err := query.Preload("Category").Preload("Brand").
		Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&listings).Error
	return listings, total, err
}

// TrendLookup returns the newest live listing whose product name contains
// term.
func TrendLookup(ctx context.Context, term string) (*models.Listing, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, validation.Errors{"q": "q is required"}
	}

	var listings []models.Listing
	err := database.DB.WithContext(ctx).
		Preload("Category").Preload("Brand").
		Where("LOWER(product_name) LIKE ?", "%"+term+"%").
		Order("created_at DESC").
		Limit(1).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}
