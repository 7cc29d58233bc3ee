package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-backed denylist of revoked session tokens.
// Logout places the token here for its remaining validity; the auth
// middleware rejects any token found in the list. Entries expire on their
// own once the token would have expired anyway.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// getRevokedKey generates the Redis key for a revoked token marker
func getRevokedKey(tokenHash string) string {
	return fmt.Sprintf("session:revoked:%s", tokenHash)
}

// hashToken returns the hex SHA-256 of a token so raw tokens never reach Redis
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke marks a token as revoked until its natural expiry. Tokens already
// past expiry are ignored.
func (s *SessionStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	key := getRevokedKey(hashToken(token))
	if err := s.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token has been revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := getRevokedKey(hashToken(token))
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}
