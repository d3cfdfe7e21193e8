package middleware

import (
	"context"

	"github.com/Kyz7/backoffice/internal/cache"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const localAdminID = "admin_id"

// SetAdminID records the caller's admin record for the section gate.
func SetAdminID(c *fiber.Ctx, id uuid.UUID) {
	c.Locals(localAdminID, id)
}

// AdminID is uuid.Nil when no admin record was resolved for the caller.
func AdminID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localAdminID).(uuid.UUID)
	return id
}

// SectionProtected enforces the per-section override for the current admin.
// It must run after auth.AdminProtected.
func SectionProtected(section models.Section) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := HasSectionAccess(c.UserContext(), AdminID(c), section)
		if err != nil {
			log.Error().Err(err).Str("section", string(section)).Msg("section permission lookup failed")
			return response.InternalError(c, "Failed to check permissions")
		}

		if !allowed {
			return response.Forbidden(c, "You don't have access to "+string(section))
		}

		return c.Next()
	}
}

// HasSectionAccess applies the default-allow rule: a stored row is
// authoritative, a missing row allows. Callers without an admin record have
// no rows and are allowed.
func HasSectionAccess(ctx context.Context, adminID uuid.UUID, section models.Section) (bool, error) {
	if adminID == uuid.Nil {
		return true, nil
	}

	if allowed, found := cache.Permissions.Get(ctx, adminID, string(section)); found {
		return allowed, nil
	}

	var perms []models.AdminPermission
	err := database.DB.WithContext(ctx).
		Where("admin_id = ? AND section = ?", adminID, section).
		Limit(1).
		Find(&perms).Error
	if err != nil {
		return false, err
	}

	allowed := true
	if len(perms) > 0 {
		allowed = perms[0].CanAccess
	}

	cache.Permissions.Set(ctx, adminID, string(section), allowed)
	return allowed, nil
}

// SectionAccessMap returns the effective decision for every known section.
func SectionAccessMap(ctx context.Context, adminID uuid.UUID) (map[models.Section]bool, error) {
	access := make(map[models.Section]bool, len(models.Sections))
	for _, s := range models.Sections {
		access[s] = true
	}

	if adminID == uuid.Nil {
		return access, nil
	}

	var perms []models.AdminPermission
	if err := database.DB.WithContext(ctx).Where("admin_id = ?", adminID).Find(&perms).Error; err != nil {
		return nil, err
	}

	for _, p := range perms {
		if p.Section.Valid() {
			access[p.Section] = p.CanAccess
		}
	}

	return access, nil
}
