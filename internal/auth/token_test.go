package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testSecret() []byte {
	return []byte(strings.Repeat("k", 32))
}

func newTokenServices(t *testing.T) map[string]TokenService {
	t.Helper()

	jwtSvc, err := NewJWTService(testSecret())
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}
	pasetoSvc, err := NewPasetoService(testSecret())
	if err != nil {
		t.Fatalf("NewPasetoService failed: %v", err)
	}

	return map[string]TokenService{
		"hs256":  jwtSvc,
		"paseto": pasetoSvc,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(userID, "a@x.com", time.Hour)
			if err != nil {
				t.Fatalf("CreateToken failed: %v", err)
			}

			claims, err := svc.VerifyToken(token)
			if err != nil {
				t.Fatalf("VerifyToken failed: %v", err)
			}

			if claims.UserID != userID.String() {
				t.Errorf("UserID = %q, want %q", claims.UserID, userID)
			}
			if claims.Email != "a@x.com" {
				t.Errorf("Email = %q, want a@x.com", claims.Email)
			}

			lifetime := claims.ExpiresAt.Sub(claims.IssuedAt)
			if lifetime < 59*time.Minute || lifetime > 61*time.Minute {
				t.Errorf("expiry - issued = %v, want ~1h", lifetime)
			}
		})
	}
}

func TestTokenExpiredFailsVerify(t *testing.T) {
	userID := uuid.New()

	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(userID, "a@x.com", -time.Minute)
			if err != nil {
				t.Fatalf("CreateToken failed: %v", err)
			}

			_, err = svc.VerifyToken(token)
			if !errors.Is(err, ErrExpiredToken) {
				t.Fatalf("VerifyToken = %v, want ErrExpiredToken", err)
			}
		})
	}
}

func TestTokenTamperedFailsVerify(t *testing.T) {
	userID := uuid.New()

	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(userID, "a@x.com", time.Hour)
			if err != nil {
				t.Fatalf("CreateToken failed: %v", err)
			}

			// Flip a character in the middle of the token
			mid := len(token) / 2
			flipped := byte('A')
			if token[mid] == 'A' {
				flipped = 'B'
			}
			tampered := token[:mid] + string(flipped) + token[mid+1:]

			if _, err := svc.VerifyToken(tampered); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("VerifyToken(tampered) = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenWrongKeyFailsVerify(t *testing.T) {
	userID := uuid.New()
	otherSecret := []byte(strings.Repeat("x", 32))

	jwtA, _ := NewJWTService(testSecret())
	jwtB, _ := NewJWTService(otherSecret)
	pasetoA, _ := NewPasetoService(testSecret())
	pasetoB, _ := NewPasetoService(otherSecret)

	pairs := map[string][2]TokenService{
		"hs256":  {jwtA, jwtB},
		"paseto": {pasetoA, pasetoB},
	}

	for name, pair := range pairs {
		t.Run(name, func(t *testing.T) {
			token, err := pair[0].CreateToken(userID, "a@x.com", time.Hour)
			if err != nil {
				t.Fatalf("CreateToken failed: %v", err)
			}

			if _, err := pair[1].VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("VerifyToken with wrong key = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenGarbageFailsVerify(t *testing.T) {
	for name, svc := range newTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			for _, garbage := range []string{"", "abc", "a.b.c", "v4.local.garbage"} {
				if _, err := svc.VerifyToken(garbage); !errors.Is(err, ErrInvalidToken) {
					t.Errorf("VerifyToken(%q) = %v, want ErrInvalidToken", garbage, err)
				}
			}
		})
	}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTService([]byte("short")); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestNewPasetoServiceRejectsWrongKeyLength(t *testing.T) {
	if _, err := NewPasetoService([]byte(strings.Repeat("k", 33))); err == nil {
		t.Fatal("expected error for non-32-byte key")
	}
}
