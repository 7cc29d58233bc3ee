package auth

import (
	"errors"
	"net/http"
	"time"
)

// AuthCookieName is the single credential carrier for this API.
const AuthCookieName = "auth_token"

var ErrNoAuthCookie = errors.New("auth cookie not present")

// SetAuthCookie attaches the session token as an httpOnly, SameSite=Lax
// cookie. Secure is set outside development so the cookie only travels over
// TLS in production. MaxAge matches the token lifetime.
func SetAuthCookie(w http.ResponseWriter, token string, secure bool, lifetime time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the auth cookie immediately.
func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetTokenFromCookie extracts the session token from the request cookie.
func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoAuthCookie
	}
	return cookie.Value, nil
}
