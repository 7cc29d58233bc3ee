package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost keeps each guess in the multi-millisecond range.
const bcryptCost = 12

// passwordSymbols is the fixed set of accepted special characters.
const passwordSymbols = "@$!%*#?&"

const (
	passwordMinLength = 12
	// bcrypt reads at most 72 bytes of input; GenerateFromPassword rejects
	// anything longer, so the policy must too or registration would fail
	// after validation passed.
	passwordMaxBytes = 72
)

// PasswordHasher abstracts the hashing primitive so it is swappable without
// touching call sites.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher hashes passwords with bcrypt. The zero value is usable.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. A malformed
// stored hash yields false, never an error past this boundary.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy: at least 12
// characters, at most 72 bytes, with at least one letter, one digit, and one
// symbol from the fixed set. Whitespace-only passwords are rejected.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < passwordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > passwordMaxBytes {
		return ErrPasswordTooLong
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLetter {
		return ErrPasswordNeedsLetter
	}
	if !hasDigit {
		return ErrPasswordNeedsDigit
	}
	if !hasSymbol {
		return ErrPasswordNeedsSymbol
	}

	return nil
}
