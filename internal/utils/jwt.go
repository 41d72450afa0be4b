package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/kethai/internal/models"
)

type sessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateToken mints a signed session token carrying the identity id and
// phone number. Stateless; expiry is the only invalidation mechanism.
func GenerateToken(secret string, identityID uuid.UUID, phone string, ttl time.Duration) (string, error) {
	claims := &sessionClaims{
		UID: identityID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phone,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns the identity id and phone
// it was minted for. Expired tokens surface as ErrTokenExpired, anything else
// malformed as ErrInvalidToken.
func ParseToken(secret, tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", models.ErrTokenExpired
		}
		return uuid.Nil, "", models.ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return uuid.Nil, "", models.ErrInvalidToken
	}

	identityID, err := uuid.Parse(claims.UID)
	if err != nil {
		return uuid.Nil, "", models.ErrInvalidToken
	}

	return identityID, claims.Subject, nil
}
