package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/utils"
)

// AccessTokenCookie is the session cookie name.
const AccessTokenCookie = "access_token"

const identityContextKey = "currentIdentityID"

// AuthMiddleware validates the session cookie and loads the authenticated
// identity id into context. Identity is always resolved by the id claim,
// never by matching the phone claim against stored rows.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AccessTokenCookie)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "access token missing")
		}

		identityID, _, err := utils.ParseToken(jwtSecret, token)
		if err != nil {
			if errors.Is(err, models.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(identityContextKey, identityID)
		return c.Next()
	}
}

// GetCurrentIdentityID extracts the authenticated identity id from context.
func GetCurrentIdentityID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(identityContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
