package handlers

import (
	"html/template"
	"log"
	"net/http"

	"gamepal/internal/security"
	"gamepal/internal/service"
)

// ParentHandler handles the guardian dashboard and account settings
type ParentHandler struct {
	guardianService *service.GuardianService
	childService    *service.ChildService
	likeService     *service.LikeService
	middleware      *Middleware
	templates       *template.Template
}

// NewParentHandler creates a new parent handler
func NewParentHandler(guardianService *service.GuardianService, childService *service.ChildService, likeService *service.LikeService, middleware *Middleware, templates *template.Template) *ParentHandler {
	return &ParentHandler{
		guardianService: guardianService,
		childService:    childService,
		likeService:     likeService,
		middleware:      middleware,
		templates:       templates,
	}
}

// Dashboard renders the guardian dashboard: children plus a summary of
// like activity
func (h *ParentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	children, err := h.childService.GetGuardianChildren(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting children")
		return
	}

	incoming, err := h.likeService.GetIncomingPending(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting incoming likes")
		return
	}

	approved, err := h.likeService.GetApprovedMatches(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting approved matches")
		return
	}

	h.render(w, "dashboard.tmpl", map[string]interface{}{
		"Title":         "Dashboard - GamePal",
		"Guardian":      guardian,
		"Children":      children,
		"IncomingCount": len(incoming),
		"ApprovedCount": len(approved),
		"CSRFToken":     h.csrfToken(r),
	})
}

// ShowSettings renders the account settings page
func (h *ParentHandler) ShowSettings(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.render(w, "settings.tmpl", map[string]interface{}{
		"Title":     "Settings - GamePal",
		"Guardian":  guardian,
		"CSRFToken": h.csrfToken(r),
	})
}

// UpdateProfile handles the profile settings form
func (h *ParentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")

	updated, err := h.guardianService.UpdateProfile(guardian.ID, name, email)
	if err != nil {
		h.render(w, "settings.tmpl", map[string]interface{}{
			"Title":     "Settings - GamePal",
			"Guardian":  guardian,
			"Error":     err.Error(),
			"CSRFToken": h.csrfToken(r),
		})
		return
	}

	h.render(w, "settings.tmpl", map[string]interface{}{
		"Title":     "Settings - GamePal",
		"Guardian":  updated,
		"Message":   "Profile updated",
		"CSRFToken": h.csrfToken(r),
	})
}

// ChangePassword handles the change-password form
func (h *ParentHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	current := r.FormValue("current_password")
	updated := r.FormValue("new_password")

	if err := h.guardianService.ChangePassword(guardian.ID, current, updated); err != nil {
		h.render(w, "settings.tmpl", map[string]interface{}{
			"Title":     "Settings - GamePal",
			"Guardian":  guardian,
			"Error":     err.Error(),
			"CSRFToken": h.csrfToken(r),
		})
		return
	}

	h.render(w, "settings.tmpl", map[string]interface{}{
		"Title":     "Settings - GamePal",
		"Guardian":  guardian,
		"Message":   "Password changed",
		"CSRFToken": h.csrfToken(r),
	})
}

// DeleteAccount removes the guardian's account and everything under it
func (h *ParentHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := h.guardianService.DeleteAccount(guardian.ID); err != nil {
		respondWithServiceError(w, err, "Error deleting account")
		return
	}

	http.SetCookie(w, security.DeleteCookie(r, SessionCookieName))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *ParentHandler) csrfToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := h.middleware.GetCSRFToken(cookie.Value)
	return token
}

func (h *ParentHandler) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
