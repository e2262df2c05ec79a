package api

import (
	"net/http"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
)

// UsersHandler handles profile endpoints.
type UsersHandler struct {
	Market *market.Market
}

type updateUserRequest struct {
	model.UserPatch
	Password *string `json:"password"`
}

// Me handles GET /api/user.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, GetPrincipal(r.Context()).User)
}

// UpdateMe handles PATCH /api/user.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if err := model.ValidateUserPatch(req.UserPatch); err != nil {
		writeError(w, r, "Error updating user", err)
		return
	}

	patch := req.UserPatch
	if req.Password != nil {
		if err := model.ValidatePassword(*req.Password); err != nil {
			writeError(w, r, "Error updating user", err)
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			serverError(w, r, "Error updating user", err)
			return
		}
		patch.PasswordHash = &hash
	}

	user, err := h.Market.UpdateUser(r.Context(), p.User.ID, patch)
	if err != nil {
		serverError(w, r, "Error updating user", err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "User not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.Market.GetUser(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving user", err)
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "User not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}
