package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-io/taskboard/internal/httputil"
	"github.com/taskboard-io/taskboard/internal/logging"
	"github.com/taskboard-io/taskboard/internal/user"
)

// Principal is the authenticated identity resolved from the request cookie.
type Principal struct {
	ID    uuid.UUID
	Email string
}

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	PrincipalContextKey   ContextKey = "principal"
	TokenExpiryContextKey ContextKey = "token_expiry"
)

// UserSource is the single store lookup the resolver performs per request.
// Implemented by *user.Repository.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// RevocationChecker reports whether a token was revoked by logout.
// Implemented by *SessionStore.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Middleware resolves the request's principal for protected routes.
type Middleware struct {
	tokens   TokenService
	sessions RevocationChecker
	users    UserSource
}

func NewMiddleware(tokens TokenService, sessions RevocationChecker, users UserSource) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, users: users}
}

// RequireAuth validates the session cookie and attaches the principal to the
// request context. Missing, malformed, expired, and revoked tokens are all
// reported with the same generic 401; only the internal log distinguishes
// them.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		token, err := GetTokenFromCookie(r)
		if err != nil {
			httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				logger.Warn("auth rejected: token expired")
			} else {
				logger.Warn("auth rejected: token invalid")
			}
			httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
			return
		}

		revoked, err := m.sessions.IsRevoked(r.Context(), token)
		if err != nil {
			logger.Error("failed to check session revocation", "error", err.Error())
			httputil.RespondError(w, httputil.CodeInternalError, "internal server error", http.StatusInternalServerError)
			return
		}
		if revoked {
			logger.Warn("auth rejected: session revoked")
			httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
			return
		}

		principalID, err := uuid.Parse(claims.UserID)
		if err != nil {
			logger.Warn("auth rejected: malformed principal id in token")
			httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
			return
		}

		// Accounts can disappear after token issuance; that session is
		// invalid, not a missing resource.
		u, err := m.users.GetByID(r.Context(), principalID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				logger.Warn("auth rejected: principal no longer exists", "user_id", principalID)
				httputil.RespondError(w, httputil.CodeUnauthenticated, "session invalid", http.StatusUnauthorized)
				return
			}
			logger.Error("failed to load principal", "error", err.Error())
			httputil.RespondError(w, httputil.CodeInternalError, "internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, Principal{ID: u.ID, Email: u.Email})
		ctx = context.WithValue(ctx, TokenExpiryContextKey, claims.ExpiresAt)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipalFromContext extracts the resolved principal from the request context
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(Principal)
	return p, ok
}

// GetTokenExpiryFromContext extracts the session token expiry from the request context
func GetTokenExpiryFromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(TokenExpiryContextKey).(time.Time)
	return t, ok
}
