package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/example/kethai/internal/models"
)

// NewErrorHandler returns the fiber error handler that maps domain error
// sentinels to HTTP status codes and renders the canonical error envelope.
// Unexpected errors are logged and reported as a generic 500.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		if code, ok := statusFor(err); ok {
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, models.ErrIdentityNotFound),
		errors.Is(err, models.ErrProductNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, models.ErrAlreadyRegistered):
		return fiber.StatusConflict, true
	case errors.Is(err, models.ErrNotVerified),
		errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden, true
	case errors.Is(err, models.ErrInvalidOtp),
		errors.Is(err, models.ErrOtpExpired),
		errors.Is(err, models.ErrInvalidFileType):
		return fiber.StatusBadRequest, true
	case errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrTokenExpired):
		return fiber.StatusUnauthorized, true
	}
	return 0, false
}
