package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"gamepal/internal/models"
	"gamepal/internal/service"
)

// LikeHandler handles the pending-matches and approved-matches pages
type LikeHandler struct {
	likeService    *service.LikeService
	meetingService *service.MeetingService
	middleware     *Middleware
	templates      *template.Template
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likeService *service.LikeService, meetingService *service.MeetingService, middleware *Middleware, templates *template.Template) *LikeHandler {
	return &LikeHandler{
		likeService:    likeService,
		meetingService: meetingService,
		middleware:     middleware,
		templates:      templates,
	}
}

// approvedMatchView pairs an approved match with its scheduled meetings
type approvedMatchView struct {
	models.LikeView
	Meetings []models.Meeting
}

// ShowPendingMatches renders incoming requests awaiting decision plus the
// guardian's own outgoing requests
func (h *LikeHandler) ShowPendingMatches(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	incoming, err := h.likeService.GetIncomingPending(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting incoming likes")
		return
	}

	outgoing, err := h.likeService.GetOutgoingPending(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting outgoing likes")
		return
	}

	h.render(w, "pending_matches.tmpl", map[string]interface{}{
		"Title":     "Pending Matches - GamePal",
		"Guardian":  guardian,
		"Incoming":  incoming,
		"Outgoing":  outgoing,
		"CSRFToken": h.csrfToken(r),
	})
}

// ShowApprovedMatches renders approved matches with contact details and
// scheduled playdates
func (h *LikeHandler) ShowApprovedMatches(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	matches, err := h.likeService.GetApprovedMatches(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting approved matches")
		return
	}

	views := make([]approvedMatchView, 0, len(matches))
	for _, match := range matches {
		meetings, err := h.meetingService.GetMeetings(guardian.ID, match.LikeID)
		if err != nil {
			log.Printf("Error getting meetings for like %d: %v", match.LikeID, err)
			meetings = nil
		}
		views = append(views, approvedMatchView{LikeView: match, Meetings: meetings})
	}

	h.render(w, "approved_matches.tmpl", map[string]interface{}{
		"Title":     "My Matches - GamePal",
		"Guardian":  guardian,
		"Matches":   views,
		"CSRFToken": h.csrfToken(r),
	})
}

// ShowNotifications renders recent like activity for the guardian
func (h *LikeHandler) ShowNotifications(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	notifications, err := h.likeService.GetNotifications(guardian.ID)
	if err != nil {
		respondWithServiceError(w, err, "Error getting notifications")
		return
	}

	h.render(w, "notifications.tmpl", map[string]interface{}{
		"Title":         "Notifications - GamePal",
		"Guardian":      guardian,
		"Notifications": notifications,
		"CSRFToken":     h.csrfToken(r),
	})
}

// Approve accepts an incoming pending like
func (h *LikeHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// Decline rejects an incoming pending like
func (h *LikeHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *LikeHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
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

	if approve {
		err = h.likeService.ApproveLike(r.Context(), guardian.ID, likeID)
	} else {
		err = h.likeService.DeclineLike(r.Context(), guardian.ID, likeID)
	}
	if err != nil {
		respondWithServiceError(w, err, "Error deciding like")
		return
	}

	http.Redirect(w, r, "/matches", http.StatusSeeOther)
}

// ScheduleMeeting handles the playdate form on an approved match
func (h *LikeHandler) ScheduleMeeting(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	date := r.FormValue("date")
	timeOfDay := r.FormValue("time")
	notes := r.FormValue("notes")

	if _, err := h.meetingService.ScheduleMeeting(r.Context(), guardian.ID, likeID, date, timeOfDay, notes); err != nil {
		respondWithServiceError(w, err, "Error scheduling meeting")
		return
	}

	http.Redirect(w, r, "/matches/approved", http.StatusSeeOther)
}

// CancelMeeting deletes a scheduled playdate
func (h *LikeHandler) CancelMeeting(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	meetingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meeting ID", http.StatusBadRequest)
		return
	}

	if err := h.meetingService.CancelMeeting(guardian.ID, meetingID); err != nil {
		respondWithServiceError(w, err, "Error cancelling meeting")
		return
	}

	http.Redirect(w, r, "/matches/approved", http.StatusSeeOther)
}

func (h *LikeHandler) csrfToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := h.middleware.GetCSRFToken(cookie.Value)
	return token
}

func (h *LikeHandler) render(w http.ResponseWriter, name string, data map[string]interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
