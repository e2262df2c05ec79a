package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
	"github.com/erazemk/wastewise/internal/store"
)

// AuthHandler handles registration, login, logout and token exchange.
type AuthHandler struct {
	Market      *market.Market
	Sessions    *auth.Sessions
	Revocations store.Revocations
	JWTSecret   string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if err := decodeJSON(r, &in); err != nil {
		invalidBody(w)
		return
	}
	if err := model.ValidateUserInput(in); err != nil {
		writeError(w, r, "Error registering user", err)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		serverError(w, r, "Error registering user", err)
		return
	}
	in.Password = hash

	user, err := h.Market.RegisterUser(r.Context(), in)
	if errors.Is(err, market.ErrUsernameTaken) {
		jsonError(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		writeError(w, r, "Error registering user", err)
		return
	}

	if _, _, err := h.Sessions.Establish(w, r, user.ID); err != nil {
		serverError(w, r, "Error registering user", err)
		return
	}

	slog.Info("user registered", "user", user.Username)
	jsonResponse(w, http.StatusCreated, user)
}

// authenticate checks a username and password pair. It writes the error
// response and returns nil when the credentials are not accepted.
func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) *model.User {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return nil
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "Username and password are required")
		return nil
	}

	user, err := h.Market.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		serverError(w, r, "Error logging in", err)
		return nil
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return nil
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		serverError(w, r, "Error logging in", err)
		return nil
	}
	if !ok {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return nil
	}
	return user
}

// Login handles POST /api/login. It starts a cookie session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(w, r)
	if user == nil {
		return
	}

	if _, _, err := h.Sessions.Establish(w, r, user.ID); err != nil {
		serverError(w, r, "Error logging in", err)
		return
	}

	slog.Info("user logged in", "user", user.Username)
	jsonResponse(w, http.StatusOK, user)
}

// Token handles POST /api/token. It exchanges credentials for a bearer token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	user := h.authenticate(w, r)
	if user == nil {
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		serverError(w, r, "Error issuing token", err)
		return
	}

	slog.Info("token issued", "user", user.Username)
	jsonResponse(w, http.StatusOK, tokenResponse{Token: token})
}

// Logout handles POST /api/logout. The credential used for the request is
// revoked, and a session cookie is cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p := GetPrincipal(r.Context())

	if err := h.Revocations.Revoke(r.Context(), p.CredentialID, p.ExpiresAt); err != nil {
		serverError(w, r, "Error logging out", err)
		return
	}
	if p.Session {
		if err := h.Sessions.Clear(w, r); err != nil {
			serverError(w, r, "Error logging out", err)
			return
		}
	}

	slog.Info("user logged out", "user", p.User.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
