package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard-io/taskboard/internal/httputil"
	"github.com/taskboard-io/taskboard/internal/logging"
	"github.com/taskboard-io/taskboard/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service       *Service
	isProduction  bool
	tokenLifetime time.Duration
}

func NewHandler(service *Service, isProduction bool, tokenLifetime time.Duration) *Handler {
	return &Handler{
		service:       service,
		isProduction:  isProduction,
		tokenLifetime: tokenLifetime,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user's public fields in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse represents the current session for GET /auth/session
type SessionResponse struct {
	User      SessionUser `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SessionUser is the principal's public identity
type SessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration credentials"
// @Success      201 {object} httputil.Envelope
// @Failure      409 {object} httputil.Envelope "Email already exists"
// @Failure      422 {object} httputil.Envelope "Validation error"
// @Failure      500 {object} httputil.Envelope "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInvalidRequestBody, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("registration failed: email already exists")
			httputil.RespondError(w, httputil.CodeEmailAlreadyExists, "email already exists", http.StatusConflict)
			return
		}
		if IsValidationError(err) {
			logger.Warn("registration failed: validation error", "error", err.Error())
			httputil.RespondError(w, httputil.CodeValidationError, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInternalError, "failed to register user", http.StatusInternalServerError)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondData(w, UserResponse{
		ID:        newUser.ID,
		Email:     newUser.Email,
		CreatedAt: newUser.CreatedAt,
	}, "registration successful", http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate user; sets the session cookie and returns the token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Invalid credentials"
// @Failure      500 {object} httputil.Envelope "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInvalidRequestBody, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, httputil.CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInternalError, "failed to login", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in successfully", "user_id", session.UserID)

	SetAuthCookie(w, session.Token, h.isProduction, h.tokenLifetime)
	httputil.RespondData(w, session, "logged in successfully", http.StatusOK)
}

// Logout handles user logout
// @Summary      User logout
// @Description  Revoke the current session token and clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	token, _ := GetTokenFromCookie(r)
	if err := h.service.Logout(r.Context(), token); err != nil {
		// The cookie is cleared regardless; revocation failure only loses
		// the denylist entry, which expires with the token anyway.
		logger.Warn("failed to revoke session on logout", "error", err.Error())
	}

	ClearAuthCookie(w, h.isProduction)

	logger.Info("user logged out")

	httputil.RespondData(w, nil, "logged out", http.StatusOK)
}

// Session returns the authenticated principal and token expiry
// @Summary      Current session
// @Description  Return the authenticated user's public fields and session expiry
// @Tags         auth
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Router       /auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return
	}
	expiresAt, _ := GetTokenExpiryFromContext(r.Context())

	httputil.RespondData(w, SessionResponse{
		User:      SessionUser{ID: principal.ID, Email: principal.Email},
		ExpiresAt: expiresAt,
	}, "", http.StatusOK)
}
