// Package auth issues and validates the HS256 access tokens that carry the
// authenticated user's record id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"messagewall/internal/common"
)

// Claims extends the registered claims with the owning user's record id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
