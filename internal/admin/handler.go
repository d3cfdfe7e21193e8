package admin

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type PermissionsRequest struct {
	Permissions map[string]bool `json:"permissions"`
}

func handleError(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.ValidationError(c, verrs)
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Admin")
	case errors.Is(err, ErrEmailTaken):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, ErrAdminCodeTaken):
		return response.Conflict(c, "Admin code already in use")
	case errors.Is(err, ErrSelfDelete), errors.Is(err, ErrSelfFreeze):
		return response.BadRequest(c, err.Error(), nil)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("admin operation failed")
	return response.InternalError(c, "Failed to process admin request")
}

func adminID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// CreateAdminHandler provisions a new admin account.
func CreateAdminHandler(c *fiber.Ctx) error {
	var body ProvisionInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	result, err := Provision(c.UserContext(), body, auth.CurrentAdminID(c), auth.CurrentEmail(c))
	if err != nil {
		return handleError(c, err)
	}

	return response.Created(c, result, "Admin created successfully")
}

func ListAdminsHandler(c *fiber.Ctx) error {
	admins, err := List(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, admins, "")
}

func GetAdminHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	a, err := Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, a, "")
}

func ToggleStatusHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	a, err := ToggleStatus(c.UserContext(), id, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, a, "Admin status updated")
}

func DeleteAdminHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	if err := Delete(c.UserContext(), id, auth.CurrentAdminID(c)); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, fiber.Map{"id": id}, "Admin deleted")
}

func GetPermissionsHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	perms, err := Permissions(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, perms, "")
}

func ReplacePermissionsHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	var body PermissionsRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	perms, err := ReplacePermissions(c.UserContext(), id, body.Permissions, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, perms, "Permissions saved")
}

func ActivityHandler(c *fiber.Ctx) error {
	id, err := adminID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid admin ID", nil)
	}

	logs, err := Activity(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, logs, "")
}
