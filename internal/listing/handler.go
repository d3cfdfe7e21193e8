package listing

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/pipeline"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func handleError(c *fiber.Ctx, err error, action string) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.ValidationError(c, verrs)
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Listing")
	case errors.Is(err, ErrNotDeleted):
		return response.Conflict(c, "Listing must be deleted before it can be restored or purged")
	case errors.Is(err, ErrConfirmRequired):
		return response.ValidationError(c, map[string]string{"confirm": "set confirm=true to permanently delete"})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg(action + " failed")
	return response.InternalError(c, "Failed to "+action)
}

func CreateListingHandler(c *fiber.Ctx) error {
	var body CreateInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	listing, err := CreateListing(c.UserContext(), body, auth.CurrentUserID(c), auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err, "create listing")
	}

	return response.Created(c, listing, "Listing created")
}

func GetListingHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	listing, err := GetListing(c.UserContext(), id)
	if err != nil {
		return handleError(c, err, "fetch listing")
	}

	return response.Success(c, fiber.Map{
		"listing":       listing,
		"next_statuses": pipeline.NextStatuses(listing.Status),
	}, "")
}

func DeleteListingHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	if err := SoftDelete(c.UserContext(), id, auth.CurrentAdminID(c)); err != nil {
		return handleError(c, err, "delete listing")
	}

	return response.Success(c, fiber.Map{"id": id}, "Listing moved to deleted listings")
}

func ListDeletedHandler(c *fiber.Ctx) error {
	page, limit, offset := response.Pagination(c, 50, 200)

	listings, total, err := ListDeleted(c.UserContext(), limit, offset)
	if err != nil {
		return handleError(c, err, "fetch deleted listings")
	}

	return response.SuccessWithMeta(c, listings, response.CalculateMeta(page, limit, total), "")
}

func RestoreListingHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	listing, err := Restore(c.UserContext(), id, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err, "restore listing")
	}

	return response.Success(c, listing, "Listing restored")
}

func PurgeListingHandler(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	if err := Purge(c.UserContext(), id, c.QueryBool("confirm", false), auth.CurrentAdminID(c)); err != nil {
		return handleError(c, err, "purge listing")
	}

	return response.Success(c, fiber.Map{"id": id}, "Listing permanently deleted")
}

func SearchListingsHandler(c *fiber.Ctx) error {
	page, limit, offset := response.Pagination(c, 50, 200)

	status := models.ListingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return response.ValidationError(c, map[string]string{"status": "unknown status"})
	}

	listings, total, err := Search(c.UserContext(), SearchQuery{
		Term:   c.Query("q"),
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return handleError(c, err, "search listings")
	}

	return response.SuccessWithMeta(c, listings, response.CalculateMeta(page, limit, total), "")
}

func TrendLookupHandler(c *fiber.Ctx) error {
	listing, err := TrendLookup(c.UserContext(), c.Query("q"))
	if err != nil {
		return handleError(c, err, "look up trend")
	}

	return response.Success(c, listing, "")
}

// DraftHandler backs the Draft page, which has no content yet.
func DraftHandler(c *fiber.Ctx) error {
	return response.Success(c, fiber.Map{"available": false}, "Drafts are coming soon")
}
