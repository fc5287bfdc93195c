package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID for session identification
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request arrived over HTTPS, either
// directly or via a reverse proxy that sets X-Forwarded-Proto.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if r.URL.Scheme == "https" {
		return true
	}
	return false
}

// SessionCookie builds a session cookie with the standard security flags.
// The Secure flag follows the request scheme.
func SessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// DeleteCookie builds an expired cookie that clears the named cookie.
func DeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
