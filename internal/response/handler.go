package response

import (
	"github.com/gofiber/fiber/v2"
)

// Client pages the front end is sent to on auth failures.
const (
	LoginRedirect        = "/auth"
	UnauthorizedRedirect = "/unauthorized"
)

// StandardResponse is the envelope every endpoint replies with.
type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int   `json:"page,omitempty"`
	Limit      int   `json:"limit,omitempty"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages,omitempty"`
}

func ok(c *fiber.Ctx, status int, data interface{}, meta *Meta, message string) error {
	return c.Status(status).JSON(StandardResponse{Success: true, Message: message, Data: data, Meta: meta})
}

func Success(c *fiber.Ctx, data interface{}, message string) error {
	return ok(c, fiber.StatusOK, data, nil, message)
}

func SuccessWithMeta(c *fiber.Ctx, data interface{}, meta *Meta, message string) error {
	return ok(c, fiber.StatusOK, data, meta, message)
}

func Created(c *fiber.Ctx, data interface{}, message string) error {
	return ok(c, fiber.StatusCreated, data, nil, message)
}

func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(StandardResponse{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

func BadRequest(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message, details)
}

// Unauthorized tells the client to send the operator to the login page.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message, fiber.Map{"redirect": LoginRedirect})
}

// Forbidden tells the client to show the unauthorized page.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", message, fiber.Map{"redirect": UnauthorizedRedirect})
}

func NotFound(c *fiber.Ctx, resource string) error {
	return Error(c, fiber.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, "CONFLICT", message, nil)
}

// InvalidTransition is a conflict against the listing's current status.
func InvalidTransition(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, "INVALID_TRANSITION", message, nil)
}

// ValidationError carries a field -> message map in details.
func ValidationError(c *fiber.Ctx, fields interface{}) error {
	return Error(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", fields)
}

func InternalError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func CalculateMeta(page, limit int, total int64) *Meta {
	meta := &Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return meta
}

// Pagination reads ?page and ?limit, clamping limit to [1, maxLimit].
func Pagination(c *fiber.Ctx, defaultLimit, maxLimit int) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}
