package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/Kyz7/backoffice/internal/activity"
	"github.com/Kyz7/backoffice/internal/cache"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/middleware"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/utils"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("admin not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrAdminCodeTaken = errors.New("admin code already in use")
	ErrSelfDelete     = errors.New("admins cannot delete their own record")
	ErrSelfFreeze     = errors.New("admins cannot freeze their own record")
)

type ProvisionInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminCode string `json:"admin_code"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
}

type ProvisionResult struct {
	UserID uuid.UUID     `json:"user_id"`
	Admin  *models.Admin `json:"admin"`
}

func (in *ProvisionInput) normalize() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.AdminCode = strings.TrimSpace(in.AdminCode)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	errs := validation.Errors{}
	errs.Required("email", in.Email)
	if in.Email != "" && !validation.IsValidEmail(in.Email) {
		errs.Add("email", "email is invalid")
	}
	if len(in.Password) < validation.MinPasswordLen {
		errs.Add("password", "password must be at least 8 characters")
	}
	errs.Required("admin_code", in.AdminCode)
	if in.AdminCode != "" && !validation.IsValidAdminCode(in.AdminCode) {
		errs.Add("admin_code", "admin_code may contain letters, digits, - and _")
	}
	errs.Required("name", in.Name)
	errs.NoMarkup("name", in.Name)
	errs.MaxLen("name", in.Name, 100)
	errs.NoMarkup("phone", in.Phone)
	errs.MaxLen("phone", in.Phone, 30)
	return errs.Err()
}

// Provision creates the identity, the admin record and the admin role grant
// as one unit. The activity entry is written after commit.
func Provision(ctx context.Context, in ProvisionInput, actorAdminID uuid.UUID, actorEmail string) (*ProvisionResult, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var result ProvisionResult
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Model(&models.Admin{}).Where("admin_code = ?", in.AdminCode).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminCodeTaken
		}

		user := models.User{Email: in.Email, Password: hashed, Provider: "local"}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		admin := models.Admin{
			UserID:    user.ID,
			AdminCode: in.AdminCode,
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Status:    models.AdminActive,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.UserRole{UserID: user.ID, Role: models.RoleAdmin}).Error; err != nil {
			return err
		}

		result = ProvisionResult{UserID: user.ID, Admin: &admin}
		return nil
	})
	if err != nil {
		return nil, err
	}

	activity.Record(ctx, actorAdminID, models.ActionAdminCreated, "", activity.Details{
		"email":      in.Email,
		"admin_code": in.AdminCode,
		"created_by": actorEmail,
	})

	return &result, nil
}

func List(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	err := database.DB.WithContext(ctx).Order("created_at DESC").Find(&admins).Error
	return admins, err
}

func Get(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := database.DB.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ToggleStatus flips an admin between active and frozen.
func ToggleStatus(ctx context.Context, id, actorAdminID uuid.UUID) (*models.Admin, error) {
	if id == actorAdminID {
		return nil, ErrSelfFreeze
	}

	admin, err := Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.AdminFrozen
	if admin.Status == models.AdminFrozen {
		next = models.AdminActive
	}

	result := database.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ? AND status = ?", id, admin.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	admin.Status = next

	activity.Record(ctx, actorAdminID, models.ActionAdminStatusChanged, "", activity.Details{
		"admin_id":   id,
		"new_status": next,
	})

	return admin, nil
}

// Delete removes the admin record, its permission rows and its admin role
// grant. Listings assigned to it lose their assignee.
func Delete(ctx context.Context, id, actorAdminID uuid.UUID) error {
	if id == actorAdminID {
		return ErrSelfDelete
	}

	admin, err := Get(ctx, id)
	if err != nil {
		return err
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Listing{}).
			Where("assigned_to = ?", id).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("admin_id = ?", id).Delete(&models.AdminPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND role = ?", admin.UserID, models.RoleAdmin).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Admin{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	cache.Permissions.Invalidate(ctx, id)
	activity.Record(ctx, actorAdminID, models.ActionAdminDeleted, "", activity.Details{
		"admin_id":   id,
		"admin_code": admin.AdminCode,
		"email":      admin.Email,
	})
	return nil
}

// Permissions returns the effective decision for every section.
func Permissions(ctx context.Context, id uuid.UUID) (map[models.Section]bool, error) {
	if _, err := Get(ctx, id); err != nil {
		return nil, err
	}
	return middleware.SectionAccessMap(ctx, id)
}

// ReplacePermissions discards every stored override for the admin and
// stores the given set in one transaction.
func ReplacePermissions(ctx context.Context, id uuid.UUID, perms map[string]bool, actorAdminID uuid.UUID) (map[models.Section]bool, error) {
	errs := validation.Errors{}
	for name := range perms {
		if !models.Section(name).Valid() {
			errs.Add(name, "unknown section")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := Get(ctx, id); err != nil {
		return nil, err
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", id).Delete(&models.AdminPermission{}).Error; err != nil {
			return err
		}
		if len(perms) == 0 {
			return nil
		}
		rows := make([]models.AdminPermission, 0, len(perms))
		for _, s := range models.Sections {
			if allowed, ok := perms[string(s)]; ok {
				rows = append(rows, models.AdminPermission{AdminID: id, Section: s, CanAccess: allowed})
			}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	cache.Permissions.Invalidate(ctx, id)

	denied := []models.Section{}
	for _, s := range models.Sections {
		if allowed, ok := perms[string(s)]; ok && !allowed {
			denied = append(denied, s)
		}
	}
	activity.Record(ctx, actorAdminID, models.ActionPermissionsUpdated, "", activity.Details{
		"admin_id": id,
		"denied":   denied,
	})

	return middleware.SectionAccessMap(ctx, id)
}

func Activity(ctx context.Context, id uuid.UUID) ([]models.AdminActivityLog, error) {
	if _, err := Get(ctx, id); err != nil {
		return nil, err
	}
	return activity.ListForAdmin(ctx, id)
}
