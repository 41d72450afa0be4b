package models

import "errors"

// Sentinel errors returned by services and repositories. The HTTP layer maps
// these to status codes; nothing below the handlers knows about HTTP.
var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrAlreadyRegistered = errors.New("phone number already registered")
	ErrNotVerified       = errors.New("phone number not verified")
	ErrInvalidOtp        = errors.New("invalid otp")
	ErrOtpExpired        = errors.New("otp expired")
	ErrOtpNotFound       = errors.New("otp not found")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrForbidden         = errors.New("not authorized for this resource")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidFileType   = errors.New("invalid file type")
)
