package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")

	ErrPasswordRequired    = errors.New("password is required")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrPasswordNeedsLetter = errors.New("password must contain at least one letter")
	ErrPasswordNeedsDigit  = errors.New("password must contain at least one digit")
	ErrPasswordNeedsSymbol = errors.New("password must contain at least one symbol (@$!%*#?&)")

	// Token verification keeps expired and malformed/tampered outcomes
	// distinct internally; both surface as the same 401 to clients.
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// IsValidationError reports whether err is a registration input error that
// maps to a 422 response.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrEmailRequired,
		ErrInvalidEmailFormat,
		ErrPasswordRequired,
		ErrPasswordTooShort,
		ErrPasswordTooLong,
		ErrPasswordNeedsLetter,
		ErrPasswordNeedsDigit,
		ErrPasswordNeedsSymbol,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
