package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-io/taskboard/internal/user"
)

// fakeHasher keeps service tests fast; bcrypt itself is covered in
// password_test.go.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Verify(password, hash string) bool    { return hash == "hashed:"+password }

type fakeUserStore struct {
	byEmail map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*user.User)}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash string) (*user.User, error) {
	if _, exists := s.byEmail[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.byEmail[email] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeRevoker struct {
	revoked map[string]time.Time
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: make(map[string]time.Time)}
}

func (r *fakeRevoker) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.revoked[token] = expiresAt
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, *fakeRevoker) {
	t.Helper()

	tokens, err := NewJWTService(testSecret())
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}

	store := newFakeUserStore()
	revoker := newFakeRevoker()
	svc := NewService(store, fakeHasher{}, tokens, revoker, time.Hour)

	return svc, store, revoker
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "a@x.com", "Abcdefgh123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if created.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", created.Email)
	}
	if created.PasswordHash == "Abcdefgh123!" {
		t.Error("password must be stored hashed")
	}

	session, err := svc.Login(ctx, "a@x.com", "Abcdefgh123!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.UserID != created.ID.String() {
		t.Errorf("session UserID = %q, want %q", session.UserID, created.ID)
	}
	if session.Token == "" {
		t.Error("session token must not be empty")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session expiry must be in the future")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "Abcdefgh123!"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, "a@x.com", "Zyxwvuts987?")
	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("second Register = %v, want ErrDuplicateEmail", err)
	}

	if len(store.byEmail) != 1 {
		t.Fatalf("store holds %d users, want 1", len(store.byEmail))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing email", "", "Abcdefgh123!", ErrEmailRequired},
		{"bad email", "not-an-email", "Abcdefgh123!", ErrInvalidEmailFormat},
		{"weak password", "a@x.com", "short", ErrPasswordTooShort},
		{"empty password", "a@x.com", "", ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register = %v, want %v", err, tt.wantErr)
			}
			if !IsValidationError(err) {
				t.Errorf("%v should classify as a validation error", err)
			}
		})
	}
}

// Registration with the real hasher must succeed for every policy-valid
// length and reject over-limit passwords as validation, never as an internal
// hashing failure.
func TestRegisterPasswordLengthAgainstRealHasher(t *testing.T) {
	tokens, err := NewJWTService(testSecret())
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}
	svc := NewService(newFakeUserStore(), NewBcryptHasher(), tokens, newFakeRevoker(), time.Hour)
	ctx := context.Background()

	longest := policyPassword(72)
	if _, err := svc.Register(ctx, "a@x.com", longest); err != nil {
		t.Fatalf("Register with 72-byte password = %v, want nil", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", longest); err != nil {
		t.Fatalf("Login with 72-byte password = %v, want nil", err)
	}

	_, err = svc.Register(ctx, "b@x.com", policyPassword(80))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("Register with 80-byte password = %v, want ErrPasswordTooLong", err)
	}
	if !IsValidationError(err) {
		t.Errorf("%v should classify as a validation error", err)
	}
}

// Wrong password and unknown email must be indistinguishable to the caller.
func TestLoginFailuresAreIdentical(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "Abcdefgh123!"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, errWrongPassword := svc.Login(ctx, "a@x.com", "Wrongpass123!")
	_, errUnknownEmail := svc.Login(ctx, "nobody@x.com", "Abcdefgh123!")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v, want ErrInvalidCredentials", errUnknownEmail)
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() {
		t.Error("both failure modes must produce identical errors")
	}
}

func TestLoginTokenRoundTripsToSamePrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "a@x.com", "Abcdefgh123!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	session, err := svc.Login(ctx, "a@x.com", "Abcdefgh123!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	tokens, _ := NewJWTService(testSecret())
	claims, err := tokens.VerifyToken(session.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.UserID != created.ID.String() {
		t.Errorf("token UserID = %q, want %q", claims.UserID, created.ID)
	}
}

func TestLogoutRevokesValidToken(t *testing.T) {
	svc, _, revoker := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "Abcdefgh123!"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	session, err := svc.Login(ctx, "a@x.com", "Abcdefgh123!")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, ok := revoker.revoked[session.Token]; !ok {
		t.Fatal("Logout should revoke the session token")
	}
}

func TestLogoutIgnoresInvalidToken(t *testing.T) {
	svc, _, revoker := newTestService(t)
	ctx := context.Background()

	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("Logout with invalid token = %v, want nil", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout with empty token = %v, want nil", err)
	}
	if len(revoker.revoked) != 0 {
		t.Fatal("nothing should be revoked for invalid tokens")
	}
}
