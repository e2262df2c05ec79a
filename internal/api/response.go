package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/wastewise/internal/model"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Message: message})
}

// serverError logs err and writes a generic 500 response.
func serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	slog.Error(message, "method", r.Method, "path", r.URL.Path, "error", err)
	jsonError(w, http.StatusInternalServerError, message)
}

// writeError maps validation errors to 400 and everything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		jsonResponse(w, http.StatusBadRequest, errorBody{Message: "Invalid data", Errors: verr.Fields})
		return
	}
	serverError(w, r, message, err)
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// invalidBody writes the response for an undecodable request body.
func invalidBody(w http.ResponseWriter) {
	jsonResponse(w, http.StatusBadRequest, errorBody{
		Message: "Invalid data",
		Errors:  []model.FieldError{{Field: "body", Message: "must be valid JSON"}},
	})
}

// pathID parses a positive numeric path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
