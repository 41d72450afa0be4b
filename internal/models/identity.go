package models

import "time"

// Identity kinds. Farmers sell produce, users buy it; the records are
// structurally identical so both live in one table discriminated by Kind.
const (
	KindFarmer = "farmer"
	KindUser   = "user"
)

// Identity is a farmer or user account keyed by phone number within its kind.
type Identity struct {
	BaseModel
	Kind     string    `gorm:"uniqueIndex:idx_identities_kind_phone" json:"kind"`
	Phone    string    `gorm:"uniqueIndex:idx_identities_kind_phone" json:"phone"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Verified bool      `json:"verified"`
	Products []Product `gorm:"foreignKey:FarmerID" json:"products,omitempty"`
}

// OtpVerification is the single outstanding OTP for a phone number. A new
// request overwrites code and expiry in place; successful verification
// deletes the row. Expired rows linger until overwritten or consumed.
type OtpVerification struct {
	BaseModel
	Phone     string    `gorm:"uniqueIndex" json:"phone"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
