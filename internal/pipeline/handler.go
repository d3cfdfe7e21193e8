package pipeline

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AssignRequest struct {
	AdminID string `json:"admin_id"`
}

type ReviewRequest struct {
	Decision Decision `json:"decision"`
}

type PublishRequest struct {
	ListingIDs []string `json:"listing_ids"`
}

func handleError(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return response.ValidationError(c, verrs)
	case errors.Is(err, ErrNotFound):
		return response.NotFound(c, "Listing")
	case errors.Is(err, ErrAdminNotFound):
		return response.NotFound(c, "Admin")
	case errors.Is(err, ErrAdminFrozen):
		return response.Conflict(c, "Admin is frozen and cannot receive assignments")
	case errors.Is(err, ErrEmptyBatch):
		return response.ValidationError(c, map[string]string{"listing_ids": "select at least one listing"})
	case errors.Is(err, ErrInvalidTransition):
		return response.InvalidTransition(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("pipeline operation failed")
	return response.InternalError(c, "Failed to update listing")
}

func listingID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// ListStageHandler lists one stage. Worklist accepts ?assigned_to=me.
func ListStageHandler(status models.ListingStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.Pagination(c, 50, 200)

		q := StageQuery{Search: c.Query("search"), Limit: limit, Offset: offset}
		switch assigned := c.Query("assigned_to"); assigned {
		case "":
		case "me":
			q.AssignedTo = auth.CurrentAdminID(c)
			if q.AssignedTo == uuid.Nil {
				return response.SuccessWithMeta(c, []models.Listing{}, response.CalculateMeta(page, limit, 0), "")
			}
		default:
			id, err := uuid.Parse(assigned)
			if err != nil {
				return response.BadRequest(c, "Invalid assigned_to", nil)
			}
			q.AssignedTo = id
		}

		listings, total, err := ListStage(c.UserContext(), status, q)
		if err != nil {
			log.Error().Err(err).Str("status", string(status)).Msg("failed to list stage")
			return response.InternalError(c, "Failed to fetch listings")
		}

		return response.SuccessWithMeta(c, listings, response.CalculateMeta(page, limit, total), "")
	}
}

func ValidateHandler(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	var body ValidateInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	listing, err := ValidateListing(c.UserContext(), id, body)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, listing, "Listing validated")
}

func AssignHandler(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	var body AssignRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.AdminID == "" {
		return response.ValidationError(c, map[string]string{"admin_id": "admin_id is required"})
	}
	adminID, err := uuid.Parse(body.AdminID)
	if err != nil {
		return response.ValidationError(c, map[string]string{"admin_id": "admin_id must be a valid id"})
	}

	listing, err := AssignListing(c.UserContext(), id, adminID, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, listing, "Listing assigned")
}

func CompleteHandler(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	listing, err := CompleteListing(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, listing, "Listing sent to review")
}

func ReviewHandler(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	var body ReviewRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	listing, err := ReviewListing(c.UserContext(), id, body.Decision, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}

	msg := "Listing passed"
	if body.Decision == DecisionReject {
		msg = "Listing rejected"
	}
	return response.Success(c, listing, msg)
}

func ResubmitHandler(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID", nil)
	}

	listing, err := ResubmitListing(c.UserContext(), id, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, listing, "Listing resubmitted for review")
}

func PublishHandler(c *fiber.Ctx) error {
	var body PublishRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	ids := make([]uuid.UUID, 0, len(body.ListingIDs))
	for _, raw := range body.ListingIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.ValidationError(c, map[string]string{"listing_ids": "invalid listing id: " + raw})
		}
		ids = append(ids, id)
	}

	published, err := PublishListings(c.UserContext(), ids, auth.CurrentAdminID(c))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, fiber.Map{
		"count":       len(published),
		"listing_ids": published,
	}, "Listings published")
}

func DashboardHandler(c *fiber.Ctx) error {
	stats, err := GetPipelineStats(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard stats")
		return response.InternalError(c, "Failed to load dashboard")
	}

	return response.Success(c, stats, "")
}
