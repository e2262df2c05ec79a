package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/erazemk/wastewise/internal/imaging"
	"github.com/erazemk/wastewise/internal/model"
	"github.com/erazemk/wastewise/internal/store"
)

// ImagesHandler handles listing photo uploads.
type ImagesHandler struct {
	Images store.Images
}

type imageResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upload handles POST /api/images. The photo is re-encoded as JPEG and the
// returned URL can be used in a listing's images.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)

	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "File too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, errorBody{
			Message: "Invalid data",
			Errors:  []model.FieldError{{Field: "image", Message: err.Error()}},
		})
		return
	}

	img := store.Image{
		ID:        ulid.Make().String(),
		MIME:      photo.MIME,
		Data:      photo.Data,
		CreatedAt: time.Now(),
	}
	if err := h.Images.PutImage(r.Context(), img); err != nil {
		serverError(w, r, "Error saving image", err)
		return
	}

	slog.Info("image uploaded", "id", img.ID, "user", GetPrincipal(r.Context()).User.Username, "bytes", len(img.Data))
	jsonResponse(w, http.StatusCreated, imageResponse{
		ID:     img.ID,
		URL:    "/api/images/" + img.ID,
		Width:  photo.Width,
		Height: photo.Height,
	})
}

// Get handles GET /api/images/{id}.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := ulid.ParseStrict(id); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid image id")
		return
	}

	img, err := h.Images.GetImage(r.Context(), id)
	if err != nil {
		serverError(w, r, "Error retrieving image", err)
		return
	}
	if img == nil {
		jsonError(w, http.StatusNotFound, "Image not found")
		return
	}

	w.Header().Set("Content-Type", img.MIME)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Write(img.Data)
}
