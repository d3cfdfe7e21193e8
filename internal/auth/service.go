package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/middleware"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type PageAccess struct {
	models.Page
	Allowed bool `json:"allowed"`
}

type Session struct {
	User    *models.User  `json:"user"`
	IsAdmin bool          `json:"is_admin"`
	Admin   *models.Admin `json:"admin,omitempty"`
	Pages   []PageAccess  `json:"pages"`
}

func issueTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
	}, nil
}

func LoginUser(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	var user models.User
	err := database.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}

	return &user, tokens, nil
}

// LoadSession assembles what a client needs to decide which pages to render.
func LoadSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	db := database.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	isAdmin, err := HasRole(db, userID, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	session := &Session{User: &user, IsAdmin: isAdmin, Pages: []PageAccess{}}
	if !isAdmin {
		for _, p := range models.Pages {
			session.Pages = append(session.Pages, PageAccess{Page: p, Allowed: false})
		}
		return session, nil
	}

	adminID := uuid.Nil
	var admin models.Admin
	err = db.Where("user_id = ?", userID).First(&admin).Error
	switch {
	case err == nil:
		session.Admin = &admin
		adminID = admin.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	access, err := middleware.SectionAccessMap(ctx, adminID)
	if err != nil {
		return nil, err
	}

	frozen := session.Admin != nil && session.Admin.Status == models.AdminFrozen
	for _, p := range models.Pages {
		session.Pages = append(session.Pages, PageAccess{Page: p, Allowed: access[p.Section] && !frozen})
	}

	return session, nil
}
