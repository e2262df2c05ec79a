package api

import (
	"net/http"

	"github.com/erazemk/wastewise/internal/market"
)

// EventsHandler handles community event endpoints.
type EventsHandler struct {
	Market *market.Market
}

// List handles GET /api/events. Only upcoming events are returned.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.Market.GetUpcomingEvents(r.Context())
	if err != nil {
		serverError(w, r, "Error retrieving events", err)
		return
	}
	jsonResponse(w, http.StatusOK, events)
}

// Get handles GET /api/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	event, err := h.Market.GetEvent(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving event", err)
		return
	}
	if event == nil {
		jsonError(w, http.StatusNotFound, "Event not found")
		return
	}
	jsonResponse(w, http.StatusOK, event)
}
