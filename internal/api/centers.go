package api

import (
	"net/http"

	"github.com/erazemk/wastewise/internal/market"
)

// CentersHandler handles disposal center endpoints.
type CentersHandler struct {
	Market *market.Market
}

// List handles GET /api/disposal-centers.
func (h *CentersHandler) List(w http.ResponseWriter, r *http.Request) {
	origin, radius := nearbyQuery(r)
	centers, err := h.Market.GetNearbyDisposalCenters(r.Context(), origin, radius, r.URL.Query().Get("type"))
	if err != nil {
		serverError(w, r, "Error retrieving disposal centers", err)
		return
	}
	jsonResponse(w, http.StatusOK, centers)
}

// Get handles GET /api/disposal-centers/{id}.
func (h *CentersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid disposal center id")
		return
	}

	center, err := h.Market.GetDisposalCenter(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving disposal center", err)
		return
	}
	if center == nil {
		jsonError(w, http.StatusNotFound, "Disposal center not found")
		return
	}
	jsonResponse(w, http.StatusOK, center)
}
