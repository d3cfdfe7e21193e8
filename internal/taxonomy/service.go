package taxonomy

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
	ErrNotFound            = errors.New("not found")
	ErrDuplicateName       = errors.New("name already exists")
	ErrReplacementRequired = errors.New("replacement required")
	ErrReplacementNotFound = errors.New("replacement not found")
	ErrReplacementIsSelf   = errors.New("replacement must differ from the deleted record")
)

// InUseError reports how many listings block a delete without replacement.
// It matches ErrReplacementRequired.
type InUseError struct {
	Kind     Kind
	Listings int64
}

func (e *InUseError) Error() string {
	return string(e.Kind) + " is used by listings; choose a replacement"
}

func (e *InUseError) Is(target error) bool {
	return target == ErrReplacementRequired
}

type Kind string

const (
	KindCategory Kind = "category"
	KindBrand    Kind = "brand"
)

func (k Kind) table() string {
	if k == KindBrand {
		return "brands"
	}
	return "categories"
}

func (k Kind) model() interface{} {
	if k == KindBrand {
		return &models.Brand{}
	}
	return &models.Category{}
}

func (k Kind) column() string {
	if k == KindBrand {
		return "brand_id"
	}
	return "category_id"
}

func (k Kind) deleteAction() string {
	if k == KindBrand {
		return models.ActionBrandDeleted
	}
	return models.ActionCategoryDeleted
}

// Entry is the shared shape of categories and brands.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Listings int64     `json:"listings"`
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	errs := validation.Errors{}
	errs.Required("name", name)
	errs.NoMarkup("name", name)
	errs.MaxLen("name", name, models.MaxTaxonomyNameLen)
	return name, errs.Err()
}

func nameTaken(db *gorm.DB, kind Kind, name string, except uuid.UUID) (bool, error) {
	var count int64
	q := db.Model(kind.model()).Where("LOWER(name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func Create(ctx context.Context, kind Kind, name string) (interface{}, error) {
	db := database.DB.WithContext(ctx)

	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	taken, err := nameTaken(db, kind, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}

	if kind == KindBrand {
		b := models.Brand{Name: name}
		if err := db.Create(&b).Error; err != nil {
			return nil, err
		}
		return &b, nil
	}
	cat := models.Category{Name: name}
	if err := db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func Rename(ctx context.Context, kind Kind, id uuid.UUID, name string) error {
	db := database.DB.WithContext(ctx)

	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	taken, err := nameTaken(db, kind, name, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	result := db.Model(kind.model()).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every entry with its product count. Soft-deleted listings
// are not counted.
func List(ctx context.Context, kind Kind) ([]Entry, error) {
	entries := []Entry{}
	t := kind.table()
	err := database.DB.WithContext(ctx).
		Table(t).
		Select(t+".id, "+t+".name, COUNT(listings.id) AS listings").
		Joins("LEFT JOIN listings ON listings."+kind.column()+" = "+t+".id AND listings.deleted_at IS NULL").
		Group(t + ".id, " + t + ".name").
		Order(t + ".name").
		Scan(&entries).Error
	return entries, err
}

// UsageCount counts every listing referencing the record, soft-deleted ones
// included, since a restore would otherwise leave a dangling reference.
func UsageCount(db *gorm.DB, kind Kind, id uuid.UUID) (int64, error) {
	var count int64
	err := db.Unscoped().Model(&models.Listing{}).Where(kind.column()+" = ?", id).Count(&count).Error
	return count, err
}

// Delete removes a category or brand. When listings still reference it a
// replacement is required; listings are reassigned and the record removed
// in one transaction.
func Delete(ctx context.Context, kind Kind, id uuid.UUID, replacement *uuid.UUID, actorAdminID uuid.UUID) (int64, error) {
	var moved int64

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(kind.model()).Where("id = ?", id).Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return ErrNotFound
		}

		inUse, err := UsageCount(tx, kind, id)
		if err != nil {
			return err
		}

		if inUse > 0 {
			if replacement == nil || *replacement == uuid.Nil {
				return &InUseError{Kind: kind, Listings: inUse}
			}
			if *replacement == id {
				return ErrReplacementIsSelf
			}
			var replFound int64
			if err := tx.Model(kind.model()).Where("id = ?", *replacement).Count(&replFound).Error; err != nil {
				return err
			}
			if replFound == 0 {
				return ErrReplacementNotFound
			}

			result := tx.Unscoped().Model(&models.Listing{}).
				Where(kind.column()+" = ?", id).
				Update(kind.column(), *replacement)
			if result.Error != nil {
				return result.Error
			}
			moved = result.RowsAffected
		}

		return tx.Delete(kind.model(), "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}

	details := activity.Details{"id": id, "reassigned": moved}
	if replacement != nil && moved > 0 {
		details["replacement_id"] = *replacement
	}
	activity.Record(ctx, actorAdminID, kind.deleteAction(), "", details)

	return moved, nil
}
