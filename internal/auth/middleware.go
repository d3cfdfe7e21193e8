package auth

import (
	"errors"
	"strings"

	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/middleware"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	localUserID    = "user_id"
	localUserEmail = "user_email"
)

func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid token format")
		}

		claims, err := utils.ParseJWT(tokenParts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		userID, err := claims.UserID()
		if err != nil {
			return response.Unauthorized(c, "Invalid token subject")
		}

		c.Locals(localUserID, userID)
		c.Locals(localUserEmail, claims.Email)
		return c.Next()
	}
}

// AdminProtected is the coarse gate: the caller must hold the admin role.
// The caller's admin record, when one exists, is attached for the
// section gate and the activity log. Frozen admins are turned away.
func AdminProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == uuid.Nil {
			return response.Unauthorized(c, "User not authenticated")
		}

		ctx := c.UserContext()
		isAdmin, err := HasRole(database.DB.WithContext(ctx), userID, models.RoleAdmin)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("role lookup failed")
			return response.InternalError(c, "Failed to verify role")
		}
		if !isAdmin {
			return response.Forbidden(c, "Admin role required")
		}

		var admin models.Admin
		err = database.DB.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
		switch {
		case err == nil:
			if admin.Status == models.AdminFrozen {
				return response.Forbidden(c, "Admin account is frozen")
			}
			middleware.SetAdminID(c, admin.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.SetAdminID(c, uuid.Nil)
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("admin lookup failed")
			return response.InternalError(c, "Failed to load admin")
		}

		return c.Next()
	}
}

func HasRole(db *gorm.DB, userID uuid.UUID, role string) (bool, error) {
	var count int64
	err := db.Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

func CurrentUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}

func CurrentEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(localUserEmail).(string)
	return email
}

// CurrentAdminID is uuid.Nil when the caller holds the admin role but has
// no admin record.
func CurrentAdminID(c *fiber.Ctx) uuid.UUID {
	return middleware.AdminID(c)
}
