package auth

import (
	"errors"

	"github.com/Kyz7/backoffice/internal/middleware"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/response"
	"github.com/Kyz7/backoffice/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func LoginHandler(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	errs := map[string]string{}
	if body.Email == "" {
		errs["email"] = "email is required"
	}
	if body.Password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) > 0 {
		return response.ValidationError(c, errs)
	}

	user, tokens, err := LoginUser(c.UserContext(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("login failed")
		return response.InternalError(c, "Failed to sign in")
	}

	return response.Success(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          user,
	}, "Login successful")
}

func RefreshHandler(c *fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if body.RefreshToken == "" {
		return response.ValidationError(c, map[string]string{
			"refresh_token": "refresh_token is required",
		})
	}

	userID, accessToken, newRefreshToken, err := utils.RefreshTokenPair(body.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, err.Error())
	}

	return response.Success(c, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user_id":       userID,
		"expires_in":    int(utils.AccessTokenTTL.Seconds()),
	}, "Token refreshed successfully")
}

func LogoutHandler(c *fiber.Ctx) error {
	userID := CurrentUserID(c)

	if err := utils.RevokeRefreshTokens(userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to revoke refresh tokens")
		return response.InternalError(c, "Failed to sign out")
	}
	log.Info().Str("user_id", userID.String()).Msg("user logged out")

	return response.Success(c, fiber.Map{"user_id": userID}, "Logout successful")
}

func SessionHandler(c *fiber.Ctx) error {
	session, err := LoadSession(c.UserContext(), CurrentUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Session not found")
	}

	return response.Success(c, session, "")
}

// NavigationHandler resolves client pages against the caller's section
// permissions. With ?path= it answers for a single page.
func NavigationHandler(c *fiber.Ctx) error {
	ctx := c.UserContext()
	access, err := middleware.SectionAccessMap(ctx, CurrentAdminID(c))
	if err != nil {
		log.Error().Err(err).Msg("section access lookup failed")
		return response.InternalError(c, "Failed to load navigation")
	}

	if path := c.Query("path"); path != "" {
		if models.IsPublicPath(path) {
			return response.Success(c, fiber.Map{"path": path, "public": true, "allowed": true}, "")
		}
		page, ok := models.PageFor(path)
		if !ok {
			return response.NotFound(c, "Page")
		}
		return response.Success(c, PageAccess{Page: page, Allowed: access[page.Section]}, "")
	}

	pages := make([]PageAccess, 0, len(models.Pages))
	for _, p := range models.Pages {
		pages = append(pages, PageAccess{Page: p, Allowed: access[p.Section]})
	}
	return response.Success(c, pages, "")
}
