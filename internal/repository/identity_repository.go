package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/kethai/internal/models"
)

// IdentityRepository persists identities and their OTP records.
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository constructs an IdentityRepository.
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// FindByPhone loads an identity by kind and phone.
func (r *IdentityRepository) FindByPhone(ctx context.Context, kind, phone string) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).
		Where("kind = ? AND phone = ?", kind, phone).
		First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// FindByID loads an identity by primary key.
func (r *IdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// Create inserts a new identity.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

// FindOtp returns the outstanding OTP record for a phone, if any.
func (r *IdentityRepository) FindOtp(ctx context.Context, phone string) (*models.OtpVerification, error) {
	var otp models.OtpVerification
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOtpNotFound
		}
		return nil, err
	}
	return &otp, nil
}

// UpsertOtp stores the phone's OTP, overwriting any existing code and expiry
// in place. Read-then-write: two concurrent requests for the same phone race
// and the last writer wins.
func (r *IdentityRepository) UpsertOtp(ctx context.Context, phone, code string, expiresAt time.Time) error {
	db := r.db.WithContext(ctx)

	var otp models.OtpVerification
	err := db.Where("phone = ?", phone).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Create(&models.OtpVerification{
				Phone:     phone,
				Code:      code,
				ExpiresAt: expiresAt,
			}).Error
		}
		return err
	}

	otp.Code = code
	otp.ExpiresAt = expiresAt
	return db.Save(&otp).Error
}

// ConsumeOtp marks the identity verified and deletes the phone's OTP record
// in one transaction; either both writes land or neither does.
func (r *IdentityRepository) ConsumeOtp(ctx context.Context, identityID uuid.UUID, phone string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Identity{}).
			Where("id = ?", identityID).
			Update("verified", true).Error; err != nil {
			return err
		}
		return tx.Where("phone = ?", phone).Delete(&models.OtpVerification{}).Error
	})
}
