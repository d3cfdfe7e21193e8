package taxonomy

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NameRequest struct {
	Name string `json:"name"`
}

type DeleteRequest struct {
	ReplacementID string `json:"replacement_id"`
}

func (k Kind) label() string {
	if k == KindBrand {
		return "Brand"
	}
	return "Category"
}

func handleError(c *fiber.Ctx, kind Kind, err error) error {
	var (
		verrs validation.Errors
		inUse *InUseError
	)
	switch {
	case errors.As(err, &verrs):
		return response.ValidationError(c, verrs)
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, kind.label())
	case errors.Is(err, ErrDuplicateName):
		return response.Conflict(c, kind.label()+" name already exists")
	case errors.As(err, &inUse):
		return response.Error(c, fiber.StatusConflict, "REPLACEMENT_REQUIRED", inUse.Error(), fiber.Map{
			"listings": inUse.Listings,
		})
	case errors.Is(err, ErrReplacementIsSelf):
		return response.ValidationError(c, map[string]string{"replacement_id": "replacement must be a different " + string(kind)})
	case errors.Is(err, ErrReplacementNotFound):
		return response.ValidationError(c, map[string]string{"replacement_id": "replacement " + string(kind) + " does not exist"})
	}

	log.Error().Err(err).Str("kind", string(kind)).Msg("taxonomy operation failed")
	return response.InternalError(c, "Failed to update "+string(kind))
}

func ListHandler(kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := List(c.UserContext(), kind)
		if err != nil {
			return handleError(c, kind, err)
		}
		return response.Success(c, entries, "")
	}
}

func CreateHandler(kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return response.BadRequest(c, "Invalid request body", err.Error())
		}

		created, err := Create(c.UserContext(), kind, body.Name)
		if err != nil {
			return handleError(c, kind, err)
		}
		return response.Created(c, created, kind.label()+" created")
	}
}

func RenameHandler(kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return response.BadRequest(c, "Invalid "+string(kind)+" ID", nil)
		}

		var body NameRequest
		if err := c.BodyParser(&body); err != nil {
			return response.BadRequest(c, "Invalid request body", err.Error())
		}

		if err := Rename(c.UserContext(), kind, id, body.Name); err != nil {
			return handleError(c, kind, err)
		}
		return response.Success(c, fiber.Map{"id": id}, kind.label()+" updated")
	}
}

// DeleteHandler accepts the replacement in the body or as
// ?replacement_id=.
func DeleteHandler(kind Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return response.BadRequest(c, "Invalid "+string(kind)+" ID", nil)
		}

		var body DeleteRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return response.BadRequest(c, "Invalid request body", err.Error())
			}
		}
		raw := body.ReplacementID
		if raw == "" {
			raw = c.Query("replacement_id")
		}

		var replacement *uuid.UUID
		if raw != "" {
			r, err := uuid.Parse(raw)
			if err != nil {
				return response.ValidationError(c, map[string]string{"replacement_id": "replacement_id must be a valid id"})
			}
			replacement = &r
		}

		moved, err := Delete(c.UserContext(), kind, id, replacement, auth.CurrentAdminID(c))
		if err != nil {
			return handleError(c, kind, err)
		}
		return response.Success(c, fiber.Map{"id": id, "reassigned": moved}, kind.label()+" deleted")
	}
}
