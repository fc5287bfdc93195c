package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"gamepal/internal/models"
	"gamepal/internal/service"
)

// ChildHandler handles the kids manager pages
type ChildHandler struct {
	childService *service.ChildService
	middleware   *Middleware
	templates    *template.Template
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService, middleware *Middleware, templates *template.Template) *ChildHandler {
	return &ChildHandler{
		childService: childService,
		middleware:   middleware,
		templates:    templates,
	}
}

// ShowKids renders the kids manager with taxonomy pickers
func (h *ChildHandler) ShowKids(w http.ResponseWriter, r *http.Request) {
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

	taxonomy, err := h.childService.GetTaxonomy()
	if err != nil {
		respondWithServiceError(w, err, "Error getting taxonomy")
		return
	}

	h.render(w, "kids.tmpl", map[string]interface{}{
		"Title":      "My Kids - GamePal",
		"Guardian":   guardian,
		"Children":   children,
		"Taxonomy":   taxonomy,
		"Categories": models.Categories,
		"Avatars":    models.AvatarOptions,
		"CSRFToken":  h.csrfToken(r),
	})
}

// CreateChild handles the new-child form
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	name, age, bio, avatar, attrs, err := parseChildForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.childService.CreateChild(guardian.ID, name, age, bio, avatar, attrs); err != nil {
		respondWithServiceError(w, err, "Error creating child")
		return
	}

	http.Redirect(w, r, "/kids", http.StatusSeeOther)
}

// UpdateChild handles the edit-child form
func (h *ChildHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	childID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}

	name, age, bio, avatar, attrs, err := parseChildForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.childService.UpdateChild(guardian.ID, childID, name, age, bio, avatar, attrs); err != nil {
		respondWithServiceError(w, err, "Error updating child")
		return
	}

	http.Redirect(w, r, "/kids", http.StatusSeeOther)
}

// DeleteChild handles child profile deletion
func (h *ChildHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	childID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}

	if err := h.childService.DeleteChild(guardian.ID, childID); err != nil {
		respondWithServiceError(w, err, "Error deleting child")
		return
	}

	http.Redirect(w, r, "/kids", http.StatusSeeOther)
}

// parseChildForm reads the shared create/edit child form. Attribute
// selections arrive as repeated attr_<category> fields holding value ids.
func parseChildForm(r *http.Request) (name string, age int, bio, avatar string, attrs models.AttributeSets, err error) {
	if err = r.ParseForm(); err != nil {
		return "", 0, "", "", nil, err
	}

	name = r.FormValue("name")
	bio = r.FormValue("bio")
	avatar = r.FormValue("avatar")

	age, err = strconv.Atoi(r.FormValue("age"))
	if err != nil {
		return "", 0, "", "", nil, err
	}

	attrs = models.AttributeSets{}
	for _, category := range models.Categories {
		values := r.Form["attr_"+string(category)]
		for _, raw := range values {
			id, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr != nil {
				return "", 0, "", "", nil, parseErr
			}
			attrs[category] = append(attrs[category], id)
		}
	}
	return name, age, bio, avatar, attrs, nil
}

func (h *ChildHandler) csrfToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := h.middleware.GetCSRFToken(cookie.Value)
	return token
}

func (h *ChildHandler) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
