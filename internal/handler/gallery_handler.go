package handler

import (
	"net/http"

	"creative-tools-api/internal/domain"

	"github.com/gorilla/mux"
)

type GalleryHandler struct {
	gallery domain.GalleryService
	logger  domain.Logger
}

func NewGalleryHandler(gallery domain.GalleryService, logger domain.Logger) *GalleryHandler {
	return &GalleryHandler{
		gallery: gallery,
		logger:  logger,
	}
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	images, err := h.gallery.List(r.Context(), userID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": images})
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	imageID := mux.Vars(r)["id"]
	if imageID == "" {
		writeError(w, http.StatusBadRequest, "Image ID is required")
		return
	}

	if err := h.gallery.Delete(r.Context(), userID, imageID); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
