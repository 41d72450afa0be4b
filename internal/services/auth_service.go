package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/example/kethai/internal/models"
	"github.com/example/kethai/internal/utils"
)

// IdentityStore is the persistence surface the auth flow needs.
type IdentityStore interface {
	FindByPhone(ctx context.Context, kind, phone string) (*models.Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	Create(ctx context.Context, identity *models.Identity) error
	FindOtp(ctx context.Context, phone string) (*models.OtpVerification, error)
	UpsertOtp(ctx context.Context, phone, code string, expiresAt time.Time) error
	ConsumeOtp(ctx context.Context, identityID uuid.UUID, phone string) error
}

// Notifier delivers OTP codes out of band.
type Notifier interface {
	SendOtp(ctx context.Context, phone, code string) error
}

// AuthService implements registration, login and the OTP verification flow
// for both farmers and users.
type AuthService struct {
	store     IdentityStore
	notifier  Notifier
	jwtSecret string
	tokenTTL  time.Duration
	otpTTL    time.Duration
	log       zerolog.Logger
}

// NewAuthService constructs an AuthService. notifier may be nil when no SMS
// gateway is configured.
func NewAuthService(store IdentityStore, notifier Notifier, jwtSecret string, tokenTTL, otpTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthService{
		store:     store,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		otpTTL:    otpTTL,
		log:       log,
	}
}

// Register creates a new identity for an unseen phone number.
func (s *AuthService) Register(ctx context.Context, kind, phone, name, location string) (*models.Identity, error) {
	_, err := s.store.FindByPhone(ctx, kind, phone)
	if err == nil {
		return nil, models.ErrAlreadyRegistered
	}
	if err != models.ErrIdentityNotFound {
		return nil, err
	}

	identity := &models.Identity{
		Kind:     kind,
		Phone:    phone,
		Name:     name,
		Location: location,
		Verified: false,
	}
	if err := s.store.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Login returns the identity for a phone that has completed verification.
func (s *AuthService) Login(ctx context.Context, kind, phone string) (*models.Identity, error) {
	identity, err := s.store.FindByPhone(ctx, kind, phone)
	if err != nil {
		return nil, err
	}
	if !identity.Verified {
		return nil, models.ErrNotVerified
	}
	return identity, nil
}

// RequestOtp generates a fresh 6-digit code for the phone, creating an
// unverified identity first if the phone has never been seen. The code
// replaces any outstanding one for the phone. SMS dispatch is fire and
// forget: a gateway failure never rolls back the stored code.
func (s *AuthService) RequestOtp(ctx context.Context, kind, phone string) (string, error) {
	if _, err := s.store.FindByPhone(ctx, kind, phone); err != nil {
		if err != models.ErrIdentityNotFound {
			return "", err
		}
		identity := &models.Identity{Kind: kind, Phone: phone, Verified: false}
		if err := s.store.Create(ctx, identity); err != nil {
			return "", err
		}
	}

	code, err := generateOtpCode()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().UTC().Add(s.otpTTL)
	if err := s.store.UpsertOtp(ctx, phone, code, expiresAt); err != nil {
		return "", err
	}

	if s.notifier != nil {
		if err := s.notifier.SendOtp(ctx, phone, code); err != nil {
			s.log.Warn().Err(err).Str("phone", phone).Msg("otp sms dispatch failed")
		}
	}

	return code, nil
}

// VerifyOtp checks the submitted code against the phone's outstanding record.
// On success the identity becomes verified, the record is consumed and a
// session token is returned; the two writes are atomic.
func (s *AuthService) VerifyOtp(ctx context.Context, kind, phone, code string) (string, *models.Identity, error) {
	identity, err := s.store.FindByPhone(ctx, kind, phone)
	if err != nil {
		return "", nil, err
	}

	otp, err := s.store.FindOtp(ctx, phone)
	if err != nil {
		if err == models.ErrOtpNotFound {
			return "", nil, models.ErrInvalidOtp
		}
		return "", nil, err
	}
	if otp.Code != code {
		return "", nil, models.ErrInvalidOtp
	}
	if time.Now().UTC().After(otp.ExpiresAt.UTC()) {
		return "", nil, models.ErrOtpExpired
	}

	if err := s.store.ConsumeOtp(ctx, identity.ID, phone); err != nil {
		return "", nil, err
	}
	identity.Verified = true

	token, err := utils.GenerateToken(s.jwtSecret, identity.ID, identity.Phone, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, identity, nil
}

// Me resolves an identity by the id claim of a session token.
func (s *AuthService) Me(ctx context.Context, identityID uuid.UUID) (*models.Identity, error) {
	return s.store.FindByID(ctx, identityID)
}

// generateOtpCode returns a uniformly random code in [100000, 999999].
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
