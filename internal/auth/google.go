package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var googleOauthConfig *oauth2.Config

var (
	stateStore = make(map[string]time.Time)
	stateMutex sync.Mutex
)

// InitGoogle enables Google sign-in when client credentials are configured.
func InitGoogle(cfg *config.Config) bool {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		googleOauthConfig = nil
		return false
	}
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  cfg.GoogleRedirectURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
	}
	return true
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func storeState(state string) {
	stateMutex.Lock()
	defer stateMutex.Unlock()

	now := time.Now()
	for k, v := range stateStore {
		if now.After(v) {
			delete(stateStore, k)
		}
	}
	stateStore[state] = now.Add(5 * time.Minute)
}

func validateState(state string) bool {
	stateMutex.Lock()
	defer stateMutex.Unlock()

	expiry, exists := stateStore[state]
	if !exists {
		return false
	}
	delete(stateStore, state)
	return time.Now().Before(expiry)
}

func GoogleLogin(c *fiber.Ctx) error {
	if googleOauthConfig == nil {
		return response.NotFound(c, "Google sign-in")
	}
	state, err := generateState()
	if err != nil {
		return response.InternalError(c, "Failed to start Google sign-in")
	}
	storeState(state)
	return c.Redirect(googleOauthConfig.AuthCodeURL(state))
}

// GoogleCallback signs in identities that already exist, and only when
// Google reports the email as verified. Accounts are only ever created
// through admin provisioning.
func GoogleCallback(c *fiber.Ctx) error {
	if googleOauthConfig == nil {
		return response.NotFound(c, "Google sign-in")
	}
	if !validateState(c.Query("state")) {
		return response.BadRequest(c, "Invalid state parameter", nil)
	}

	ctx := c.UserContext()
	token, err := googleOauthConfig.Exchange(ctx, c.Query("code"))
	if err != nil {
		return response.Unauthorized(c, "Failed to exchange token")
	}

	client := googleOauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return response.InternalError(c, "Failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("google userinfo request rejected")
		return response.InternalError(c, "Failed to get user info")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response.InternalError(c, "Failed to read user info")
	}
	var userData struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.Unmarshal(data, &userData); err != nil || userData.Email == "" {
		return response.InternalError(c, "Invalid user info")
	}
	if !userData.VerifiedEmail {
		return response.Forbidden(c, "Google email address is not verified")
	}

	var u models.User
	err = database.DB.WithContext(ctx).Where("email = ?", strings.ToLower(userData.Email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Forbidden(c, "No account exists for this Google identity")
		}
		return response.InternalError(c, "Failed to load user")
	}

	tokens, err := issueTokens(&u)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue tokens after google sign-in")
		return response.InternalError(c, "Failed to sign in")
	}

	return response.Success(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          u,
	}, "Login successful")
}
