package handlers

import (
	"html/template"
	"log"
	"net/http"

	"gamepal/internal/security"
	"gamepal/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	templates            *template.Template
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, templates *template.Template, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		templates:            templates,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// Home redirects to the dashboard or the login page
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	h.renderAuthPage(w, "login.tmpl", map[string]interface{}{
		"Title":          "Login - GamePal",
		"OAuthProviders": h.oauthProviderViews(),
	})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	session, _, err := h.authService.Login(email, password)
	if err != nil {
		h.renderAuthPage(w, "login.tmpl", map[string]interface{}{
			"Title":          "Login - GamePal",
			"Error":          "Invalid email or password",
			"Email":          email,
			"OAuthProviders": h.oauthProviderViews(),
		})
		return
	}

	http.SetCookie(w, security.SessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}

	h.renderAuthPage(w, "register.tmpl", map[string]interface{}{
		"Title":          "Register - GamePal",
		"OAuthProviders": h.oauthProviderViews(),
	})
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	name := r.FormValue("name")

	guardian, err := h.authService.Register(email, password, name)
	if err != nil {
		h.renderAuthPage(w, "register.tmpl", map[string]interface{}{
			"Title":          "Register - GamePal",
			"Error":          err.Error(),
			"Email":          email,
			"Name":           name,
			"OAuthProviders": h.oauthProviderViews(),
		})
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		if err := h.emailService.SendWelcomeEmail(r.Context(), guardian.Email, guardian.Name); err != nil {
			log.Printf("Failed to send welcome email: %v", err)
		}
	}

	// Auto-login after registration
	session, _, err := h.authService.Login(email, password)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, security.SessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.DeleteCookie(r, SessionCookieName))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowForgotPassword renders the forgot-password page
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.renderAuthPage(w, "forgot_password.tmpl", map[string]interface{}{
		"Title": "Forgot Password - GamePal",
	})
}

// ForgotPassword handles the forgot-password form submission. The response
// is identical whether or not the address has an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, email); err != nil {
		log.Printf("Password reset request failed: %v", err)
	}

	h.renderAuthPage(w, "forgot_password.tmpl", map[string]interface{}{
		"Title":   "Forgot Password - GamePal",
		"Message": "If that address has an account, a reset link is on its way.",
	})
}

// ShowResetPassword renders the reset-password page for a token link
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	valid, err := h.authService.ValidatePasswordResetToken(token)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error validating reset token", err)
		return
	}
	if !valid {
		h.renderAuthPage(w, "reset_password.tmpl", map[string]interface{}{
			"Title": "Reset Password - GamePal",
			"Error": "This reset link is invalid or has expired.",
		})
		return
	}

	h.renderAuthPage(w, "reset_password.tmpl", map[string]interface{}{
		"Title": "Reset Password - GamePal",
		"Token": token,
	})
}

// ResetPassword handles the reset-password form submission
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	password := r.FormValue("password")

	if err := h.authService.ResetPassword(token, password); err != nil {
		h.renderAuthPage(w, "reset_password.tmpl", map[string]interface{}{
			"Title": "Reset Password - GamePal",
			"Error": err.Error(),
			"Token": token,
		})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderAuthPage(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
