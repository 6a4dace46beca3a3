package auth

import (
	"time"

	"cinescope/proj/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func (a *AuthService) signToken(userID int64, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.appSecret))
}

func (a *AuthService) issueTokens(user *models.User) (*models.AuthTokens, error) {
	access, err := a.signToken(user.ID, a.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.signToken(user.ID, a.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyToken validates the signature and expiry and returns the user id
// baked into the token.
func (a *AuthService) VerifyToken(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(a.appSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return int64(uid), nil
}
