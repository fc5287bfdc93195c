package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"gamepal/internal/matching"
	"gamepal/internal/models"
	"gamepal/internal/service"
)

// MatchHandler handles the matchmaking pages and like actions
type MatchHandler struct {
	matchService *service.MatchService
	childService *service.ChildService
	likeService  *service.LikeService
	middleware   *Middleware
	templates    *template.Template
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *service.MatchService, childService *service.ChildService, likeService *service.LikeService, middleware *Middleware, templates *template.Template) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		childService: childService,
		likeService:  likeService,
		middleware:   middleware,
		templates:    templates,
	}
}

// ShowMatchmaking renders ranked suggestions for a selected child.
// Query params: child (required once the guardian has children), min_age,
// max_age, plus one optional taxonomy value id per category keyed by the
// category name; active category filters combine as AND.
func (h *MatchHandler) ShowMatchmaking(w http.ResponseWriter, r *http.Request) {
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

	data := map[string]interface{}{
		"Title":     "Find Matches - GamePal",
		"Guardian":  guardian,
		"Children":  children,
		"Taxonomy":  taxonomy,
		"CSRFToken": h.csrfToken(r),
	}

	childID := parseQueryInt(r, "child")
	if childID == 0 && len(children) > 0 {
		childID = children[0].ID
	}

	if childID != 0 {
		filters := matching.Filters{
			MinAge:   int(parseQueryInt(r, "min_age")),
			MaxAge:   int(parseQueryInt(r, "max_age")),
			Required: parseCategoryFilters(r),
		}

		suggestions, err := h.matchService.GetSuggestions(guardian.ID, childID, filters)
		if err != nil {
			respondWithServiceError(w, err, "Error getting suggestions")
			return
		}

		data["SelectedChildID"] = childID
		data["Suggestions"] = suggestions
		data["Filters"] = filters
	}

	h.render(w, "matchmaking.tmpl", data)
}

// SendLike creates a pending like from the guardian's child to another
func (h *MatchHandler) SendLike(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	fromChildID, err := strconv.ParseInt(r.FormValue("from_child"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}
	toChildID, err := strconv.ParseInt(r.FormValue("to_child"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid child ID", http.StatusBadRequest)
		return
	}

	if _, err := h.likeService.SendLike(r.Context(), guardian.ID, fromChildID, toChildID); err != nil {
		respondWithServiceError(w, err, "Error sending like")
		return
	}

	redirectBack(w, r, "/matchmaking")
}

// WithdrawLike removes a pending like the guardian's child sent
func (h *MatchHandler) WithdrawLike(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	likeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid like ID", http.StatusBadRequest)
		return
	}

	if err := h.likeService.WithdrawLike(guardian.ID, likeID); err != nil {
		respondWithServiceError(w, err, "Error withdrawing like")
		return
	}

	redirectBack(w, r, "/matches")
}

// parseCategoryFilters reads one optional exact-match filter per attribute
// category, keyed by the category name (?games=3&languages=21&...)
func parseCategoryFilters(r *http.Request) map[models.Category]int64 {
	var required map[models.Category]int64
	for _, category := range models.Categories {
		valueID := parseQueryInt(r, string(category))
		if valueID == 0 {
			continue
		}
		if required == nil {
			required = make(map[models.Category]int64)
		}
		required[category] = valueID
	}
	return required
}

// parseQueryInt reads an int64 query parameter, zero when absent or bad
func parseQueryInt(r *http.Request, name string) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// redirectBack returns to the referring page, or the fallback when the
// form posted without one. Only site-local paths are accepted: a
// protocol-relative "//host" target would leave the site.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.FormValue("return_to")
	if !isLocalPath(target) {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func isLocalPath(target string) bool {
	if len(target) == 0 || target[0] != '/' {
		return false
	}
	return len(target) == 1 || target[1] != '/'
}

func (h *MatchHandler) csrfToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := h.middleware.GetCSRFToken(cookie.Value)
	return token
}

func (h *MatchHandler) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
