package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/kethai/internal/config"
	"github.com/example/kethai/internal/middleware"
	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/services"
	"github.com/example/kethai/internal/utils"
)

// In-memory stores backing handler tests; no database involved.

type stubIdentityStore struct {
	identities map[string]*models.Identity
	otps       map[string]*models.OtpVerification
}

func newStubIdentityStore() *stubIdentityStore {
	return &stubIdentityStore{
		identities: make(map[string]*models.Identity),
		otps:       make(map[string]*models.OtpVerification),
	}
}

func (s *stubIdentityStore) FindByPhone(_ context.Context, kind, phone string) (*models.Identity, error) {
	if identity, ok := s.identities[kind+":"+phone]; ok {
		return identity, nil
	}
	return nil, models.ErrIdentityNotFound
}

func (s *stubIdentityStore) FindByID(_ context.Context, id uuid.UUID) (*models.Identity, error) {
	for _, identity := range s.identities {
		if identity.ID == id {
			return identity, nil
		}
	}
	return nil, models.ErrIdentityNotFound
}

func (s *stubIdentityStore) Create(_ context.Context, identity *models.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	s.identities[identity.Kind+":"+identity.Phone] = identity
	return nil
}

func (s *stubIdentityStore) FindOtp(_ context.Context, phone string) (*models.OtpVerification, error) {
	if otp, ok := s.otps[phone]; ok {
		return otp, nil
	}
	return nil, models.ErrOtpNotFound
}

func (s *stubIdentityStore) UpsertOtp(_ context.Context, phone, code string, expiresAt time.Time) error {
	if otp, ok := s.otps[phone]; ok {
		otp.Code = code
		otp.ExpiresAt = expiresAt
		return nil
	}
	s.otps[phone] = &models.OtpVerification{Phone: phone, Code: code, ExpiresAt: expiresAt}
	return nil
}

func (s *stubIdentityStore) ConsumeOtp(_ context.Context, identityID uuid.UUID, phone string) error {
	for _, identity := range s.identities {
		if identity.ID == identityID {
			identity.Verified = true
		}
	}
	delete(s.otps, phone)
	return nil
}

type stubProductStore struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductStore() *stubProductStore {
	return &stubProductStore{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductStore) Create(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *stubProductStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, models.ErrProductNotFound
}

func (s *stubProductStore) List(_ context.Context, farmerID *uuid.UUID, limit, offset int) ([]models.Product, int64, error) {
	var out []models.Product
	for _, product := range s.products {
		if farmerID != nil && product.FarmerID != *farmerID {
			continue
		}
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (s *stubProductStore) Update(_ context.Context, product *models.Product) error {
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *stubProductStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

func newTestConfig(exposeOtp bool) *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: 30 * time.Minute,
		OtpExpires:   5 * time.Minute,
		ExposeOtp:    exposeOtp,
	}
}

// newTestApp wires the auth and product routes against in-memory stores.
func newTestApp(cfg *config.Config) (*fiber.App, *stubIdentityStore, *stubProductStore) {
	identities := newStubIdentityStore()
	products := newStubProductStore()

	validate := utils.NewValidator()
	auth := services.NewAuthService(identities, nil, cfg.JWTSecret, cfg.TokenExpires, cfg.OtpExpires, zerolog.Nop())

	farmerAuth := NewAuthHandler(models.KindFarmer, auth, cfg, validate)
	productHandler := NewProductHandler(products, identities, validate)

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zerolog.Nop())})

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)

	farmer := app.Group("/farmer")
	farmer.Post("/register", farmerAuth.Register)
	farmer.Post("/login", farmerAuth.Login)
	farmer.Post("/request-otp", farmerAuth.RequestOtp)
	farmer.Post("/verify-otp", farmerAuth.VerifyOtp)
	farmer.Get("/me", requireAuth, farmerAuth.Me)

	listings := app.Group("/products")
	listings.Get("/", productHandler.ListProducts)
	listings.Get("/:id", productHandler.GetProduct)
	listings.Post("/", requireAuth, productHandler.CreateProduct)
	listings.Put("/:id", requireAuth, productHandler.UpdateProduct)
	listings.Delete("/:id", requireAuth, productHandler.DeleteProduct)

	return app, identities, products
}
