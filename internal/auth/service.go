package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/taskboard-io/taskboard/internal/user"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// SessionRevoker is the slice of the session store the auth service needs.
type SessionRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

// Session is what a successful login produces: the issued token and the
// principal's public fields.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service handles authentication business logic
type Service struct {
	users         UserStore
	hasher        PasswordHasher
	tokens        TokenService
	sessions      SessionRevoker
	tokenLifetime time.Duration
}

func NewService(
	users UserStore,
	hasher PasswordHasher,
	tokens TokenService,
	sessions SessionRevoker,
	tokenLifetime time.Duration,
) *Service {
	return &Service{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		sessions:      sessions,
		tokenLifetime: tokenLifetime,
	}
}

// Register creates a new user account. Validation happens before any write;
// a duplicate email surfaces as user.ErrDuplicateEmail with no row created.
func (s *Service) Register(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and issues a session token. A missing account
// and a wrong password produce the identical ErrInvalidCredentials so the
// response never reveals which check failed.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existingUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, existingUser.Email, s.tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to read back issued token: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    existingUser.ID.String(),
		Email:     existingUser.Email,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout revokes the presented token for its remaining lifetime. An invalid
// or absent token is not an error; there is simply nothing to revoke.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Revoke(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
