package httputil

import (
	"net/http"
	"time"

	"github.com/collectivehq/admin-gate/pkg/auth"
	"github.com/collectivehq/admin-gate/pkg/domain"
)

// SessionCookieName is the cookie carrying the principal's session token.
// One identity session is shared across realms; realm isolation lives in the
// per-realm whitelists and verification cookies.
const SessionCookieName = "admin_session"

// SetSessionCookie sets the HttpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie clears the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSessionToken extracts the session token from the request cookie.
func GetSessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetVerificationCookie issues the realm's verification cookie: HttpOnly,
// Secure, SameSite=Strict, path root, fixed sentinel value. The value is a
// capability flag, never the secret itself.
func SetVerificationCookie(w http.ResponseWriter, realm domain.RealmConfig, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     realm.VerifyCookieName,
		Value:    auth.VerificationSentinel,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearVerificationCookie revokes the realm's verification cookie.
func ClearVerificationCookie(w http.ResponseWriter, realm domain.RealmConfig, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     realm.VerifyCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// HasVerificationCookie reports whether the realm's verification cookie is
// present with the expected sentinel value.
func HasVerificationCookie(r *http.Request, realm domain.RealmConfig) bool {
	cookie, err := r.Cookie(realm.VerifyCookieName)
	if err != nil {
		return false
	}
	return cookie.Value == auth.VerificationSentinel
}
