package handlers

import (
	"courier-server/middleware"
	"courier-server/services"
	"courier-server/utils/errors"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type ImageHandler struct {
	imageService *services.ImageService
}

func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// POST /images (multipart, field "file") -> {"url": "/images/<id>"}
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value("userID").(string); !ok {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	defer file.Close()

	url, err := h.imageService.Upload(header.Filename, file)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// GET /images/{id}
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	w.Header().Set("Content-Type", "application/octet-stream")
	if err := h.imageService.Download(id, w); err != nil {
		middleware.WriteError(w, errors.ErrNotFound)
		return
	}
}
