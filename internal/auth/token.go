package auth

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is the payload carried by a session token.
// ExpiresAt is always IssuedAt plus the configured lifetime.
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (v4.local);
// the active one is selected by TOKEN_ALGORITHM at startup.
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, lifetime time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
