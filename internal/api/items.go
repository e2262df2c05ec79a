package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/erazemk/wastewise/internal/geo"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	Market *market.Market
}

// nearbyQuery parses latitude, longitude and radius. Without both
// coordinates the origin is nil and no distance filter applies. Values that
// are not finite or lie outside their valid range count as absent.
func nearbyQuery(r *http.Request) (*geo.Point, float64) {
	q := r.URL.Query()
	radius, ok := queryFloat(q.Get("radius"), 0, math.MaxFloat64)
	if !ok || radius == 0 {
		radius = market.DefaultRadiusKm
	}
	lat, okLat := queryFloat(q.Get("latitude"), -90, 90)
	lon, okLon := queryFloat(q.Get("longitude"), -180, 180)
	if !okLat || !okLon {
		return nil, radius
	}
	return &geo.Point{Lat: lat, Lon: lon}, radius
}

// queryFloat parses s and reports whether it is a finite number in [lo, hi].
func queryFloat(s string, lo, hi float64) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	origin, radius := nearbyQuery(r)
	items, err := h.Market.GetNearbyItems(r.Context(), origin, radius, r.URL.Query().Get("category"))
	if err != nil {
		serverError(w, r, "Error retrieving items", err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items. The listing belongs to the caller.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())

	var in model.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		invalidBody(w)
		return
	}
	if in.UserID == 0 {
		in.UserID = p.User.ID
	}
	if in.UserID != p.User.ID {
		jsonError(w, http.StatusForbidden, "Cannot create items for another user")
		return
	}
	if err := model.ValidateItemInput(in); err != nil {
		writeError(w, r, "Error creating item", err)
		return
	}

	item, err := h.Market.CreateItem(r.Context(), in)
	if err != nil {
		writeError(w, r, "Error creating item", err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}. Every successful read counts as a view.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	item, err := h.Market.ViewItem(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving item", err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// ownedItem loads an item and checks that the caller owns it. It writes the
// error response and returns nil otherwise.
func (h *ItemsHandler) ownedItem(w http.ResponseWriter, r *http.Request, message string) *model.Item {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid item id")
		return nil
	}

	item, err := h.Market.GetItem(r.Context(), id)
	if err != nil {
		serverError(w, r, message, err)
		return nil
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "Item not found")
		return nil
	}
	if item.UserID != GetPrincipal(r.Context()).User.ID {
		jsonError(w, http.StatusForbidden, "Not the owner of this item")
		return nil
	}
	return item
}

// Update handles PATCH /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r, "Error updating item")
	if item == nil {
		return
	}

	var patch model.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		invalidBody(w)
		return
	}
	if err := model.ValidateItemPatch(patch); err != nil {
		writeError(w, r, "Error updating item", err)
		return
	}

	updated, err := h.Market.UpdateItem(r.Context(), item.ID, patch)
	if err != nil {
		serverError(w, r, "Error updating item", err)
		return
	}
	if updated == nil {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item := h.ownedItem(w, r, "Error deleting item")
	if item == nil {
		return
	}

	deleted, err := h.Market.DeleteItem(r.Context(), item.ID)
	if err != nil {
		serverError(w, r, "Error deleting item", err)
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByUser handles GET /api/users/{id}/items.
func (h *ItemsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	items, err := h.Market.GetItemsByUserID(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving user items", err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}
