package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Kyz7/backoffice/internal/database"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/google/uuid"
)

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

func GenerateRefreshToken(userID uuid.UUID) (string, error) {
	rawToken := RandomString(64)

	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(rawToken),
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}

	if err := database.DB.Create(&rt).Error; err != nil {
		return "", err
	}

	return rawToken, nil
}

// ConsumeRefreshToken revokes the token and returns its owner. A token can
// be consumed once.
func ConsumeRefreshToken(token string) (uuid.UUID, error) {
	var rt models.RefreshToken
	err := database.DB.
		Where("token_hash = ? AND revoked = ? AND expires_at > ?", HashToken(token), false, time.Now()).
		First(&rt).Error
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}

	result := database.DB.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", rt.ID, false).
		Update("revoked", true)
	if result.Error != nil || result.RowsAffected != 1 {
		return uuid.Nil, ErrInvalidRefreshToken
	}

	return rt.UserID, nil
}

func RefreshTokenPair(oldToken string) (uuid.UUID, string, string, error) {
	userID, err := ConsumeRefreshToken(oldToken)
	if err != nil {
		return uuid.Nil, "", "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return uuid.Nil, "", "", fmt.Errorf("user not found")
	}

	accessToken, err := GenerateJWT(user.ID, user.Email)
	if err != nil {
		return uuid.Nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := GenerateRefreshToken(user.ID)
	if err != nil {
		return uuid.Nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return user.ID, accessToken, newRefreshToken, nil
}

func RevokeRefreshTokens(userID uuid.UUID) error {
	return database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func RandomString(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		result[i] = chars[num.Int64()]
	}
	return string(result)
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
