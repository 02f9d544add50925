package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	accessSecret  = []byte("chatterline-access-secret-change-in-production")
	refreshSecret = []byte("chatterline-refresh-secret-change-in-production")

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for any token that fails signature or
// expiry checks. Verification failure is terminal; callers never retry.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the claim set carried by both access and refresh tokens.
type TokenClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// SetSecrets installs the signing secrets. Called once at bootstrap.
func SetSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

// SetTokenTTLs overrides the token lifetimes. Called once at bootstrap.
func SetTokenTTLs(access, refresh time.Duration) {
	if access > 0 {
		accessTokenTTL = access
	}
	if refresh > 0 {
		refreshTokenTTL = refresh
	}
}

// GenerateAccessToken signs a short-lived access token for the user.
func GenerateAccessToken(userID uint) (string, error) {
	return generateToken(userID, accessSecret, accessTokenTTL)
}

// GenerateRefreshToken signs a long-lived refresh token for the user.
func GenerateRefreshToken(userID uint) (string, error) {
	return generateToken(userID, refreshSecret, refreshTokenTTL)
}

func generateToken(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique jti makes every issued token distinct even when
			// two are signed within the same second.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken verifies an access token and returns its claims.
func ParseAccessToken(tokenString string) (*TokenClaims, error) {
	return parseToken(tokenString, accessSecret)
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func ParseRefreshToken(tokenString string) (*TokenClaims, error) {
	return parseToken(tokenString, refreshSecret)
}

func parseToken(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
