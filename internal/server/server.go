package server

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// New builds the application around db. A nil cfg falls back to the
// development defaults.
func New(db *gorm.DB, cfg *config.Config) *fiber.App {
	if db != nil {
		database.DB = db
	}
	if cfg == nil {
		cfg = &config.Config{CORSOrigins: "*"}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	SetupRoutes(app, cfg)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "Route")
		case fiber.StatusMethodNotAllowed:
			return response.Error(c, fe.Code, "METHOD_NOT_ALLOWED", fe.Message, nil)
		case fiber.StatusTooManyRequests:
			return response.Error(c, fe.Code, "RATE_LIMITED", "Too many requests", nil)
		}
		return response.Error(c, fe.Code, "ERROR", fe.Message, nil)
	}
	return response.InternalError(c, "Internal server error")
}
