package storefront

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie that carries the cart session ID.
const SessionCookieName = "tienda_session"

// sessionCookieMaxAge keeps the cart for 30 days.
const sessionCookieMaxAge = 30 * 24 * 60 * 60

// GetSessionIDFromCookie retrieves the session ID from the tienda_session
// cookie. Session IDs are always minted by uuid.New, so anything that does
// not parse as a UUID is treated the same as a missing cookie. The cookie
// value flows into persistence keys and must never be trusted verbatim.
func GetSessionIDFromCookie(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// SetSessionCookie sets the tienda_session cookie with appropriate security
// settings. Secure should be true everywhere except local development.
func SetSessionCookie(w http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// EnsureSession returns the session ID from the request cookie, minting a new
// one and setting the cookie when the request has none.
func EnsureSession(w http.ResponseWriter, r *http.Request, secure bool) string {
	if sessionID := GetSessionIDFromCookie(r); sessionID != "" {
		return sessionID
	}
	sessionID := uuid.New().String()
	SetSessionCookie(w, sessionID, secure)
	return sessionID
}
