package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/kethai/internal/config"
	"github.com/example/kethai/internal/middleware"
	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/services"
	"github.com/example/kethai/internal/utils"
)

// AuthHandler serves registration, login and OTP endpoints for one identity
// kind. The farmer and user route groups each get their own instance.
type AuthHandler struct {
	kind     string
	auth     *services.AuthService
	cfg      *config.Config
	validate *utils.RequestValidator
}

// NewAuthHandler constructs an AuthHandler for the given identity kind.
func NewAuthHandler(kind string, auth *services.AuthService, cfg *config.Config, validate *utils.RequestValidator) *AuthHandler {
	return &AuthHandler{kind: kind, auth: auth, cfg: cfg, validate: validate}
}

type registerRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
}

// Register creates a new unverified account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	identity, err := h.auth.Register(c.Context(), h.kind, req.Phone, req.Name, req.Location)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "registered successfully",
		h.kind + "_id": identity.ID,
	})
}

type loginRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// Login authenticates a verified phone number.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	identity, err := h.auth.Login(c.Context(), h.kind, req.Phone)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":      "login successful",
		h.kind + "_id": identity.ID,
		"name":         identity.Name,
		"location":     identity.Location,
		"phone":        identity.Phone,
	})
}

// RequestOtp issues a fresh verification code for the phone in the query.
// The code itself is echoed back only when EXPOSE_OTP is on.
func (h *AuthHandler) RequestOtp(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone is required")
	}

	code, err := h.auth.RequestOtp(c.Context(), h.kind, phone)
	if err != nil {
		return err
	}

	resp := fiber.Map{"message": "OTP sent successfully"}
	if h.cfg.ExposeOtp {
		resp["otp"] = code
	}
	return c.JSON(resp)
}

type verifyOtpRequest struct {
	Phone   string `json:"phone" validate:"required"`
	OtpCode string `json:"otp_code" validate:"required,len=6,numeric"`
}

// VerifyOtp validates the submitted code and sets the session cookie.
func (h *AuthHandler) VerifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	token, _, err := h.auth.VerifyOtp(c.Context(), h.kind, req.Phone, req.OtpCode)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return c.JSON(fiber.Map{"message": "OTP verified successfully"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identityID, ok := middleware.GetCurrentIdentityID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	identity, err := h.auth.Me(c.Context(), identityID)
	if err != nil {
		return err
	}
	if identity.Kind != h.kind {
		return models.ErrIdentityNotFound
	}

	return c.JSON(fiber.Map{
		"id":       identity.ID,
		"phone":    identity.Phone,
		"name":     identity.Name,
		"location": identity.Location,
		"verified": identity.Verified,
	})
}
