package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"gamepal/internal/service"
)

// EventsHandler streams like-feed events to the browser over SSE
type EventsHandler struct {
	feed *service.LikeFeed
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(feed *service.LikeFeed) *EventsHandler {
	return &EventsHandler{feed: feed}
}

// Stream subscribes the guardian to their like feed and forwards events
// until the client disconnects. Events are nudges to re-fetch; a dropped
// event is recovered by the next page load.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	guardian := GetGuardianFromContext(r.Context())
	if guardian == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The server's write timeout would cut long-lived streams short.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("Events: failed to clear write deadline: %v", err)
	}

	events, unsubscribe := h.feed.Subscribe(guardian.ID)
	defer unsubscribe()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: like\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
