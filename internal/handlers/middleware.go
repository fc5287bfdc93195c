package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"gamepal/internal/models"
	"gamepal/internal/security"
	"gamepal/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const GuardianContextKey ContextKey = "guardian"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// RequireAuth requires a valid guardian session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		guardian, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.DeleteCookie(r, SessionCookieName))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), GuardianContextKey, guardian)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect validates the CSRF token on state-changing requests. The
// token may arrive as a form field or as a header (for fetch calls).
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
			return
		}

		token := r.Header.Get("X-CSRF-Token")
		if token == "" {
			if err := r.ParseForm(); err != nil {
				http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
				return
			}
			token = r.FormValue("csrf_token")
		}

		if !m.csrf.ValidateToken(cookie.Value, token) {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next(w, r)
	}
}

// RateLimit rejects requests from IPs that exceed the configured budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// GetCSRFToken returns the CSRF token for a session
func (m *Middleware) GetCSRFToken(sessionID string) (string, error) {
	return m.csrf.GenerateToken(sessionID)
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetGuardianFromContext retrieves the guardian from the request context
func GetGuardianFromContext(ctx context.Context) *models.Guardian {
	guardian, ok := ctx.Value(GuardianContextKey).(*models.Guardian)
	if !ok {
		return nil
	}
	return guardian
}
