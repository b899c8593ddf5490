package handlers

import (
	"net/http"

	"matcha-backend/internal/middleware"
	"matcha-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// maxPhotoSize caps uploads at 10 MiB.
const maxPhotoSize = 10 << 20

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// Upload handles POST /api/v1/users/{id}/photos
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if userID != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot upload to another user's profile", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	photo, err := h.photoService.Upload(r.Context(), userID, header.Filename, file, header.Size, contentType)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("filename", header.Filename).Msg("Failed to upload photo")
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("user_id", userID).Int64("photo_id", photo.ID).Msg("Photo uploaded")
	respondJSON(w, http.StatusCreated, photo)
}

// SetMain handles POST /api/v1/users/{id}/photos/{photoId}/main
func (h *PhotoHandler) SetMain(w http.ResponseWriter, r *http.Request) {
	userID, photoID, ok := h.photoParams(w, r)
	if !ok {
		return
	}

	if err := h.photoService.SetMain(r.Context(), userID, photoID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/users/{id}/photos/{photoId}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, photoID, ok := h.photoParams(w, r)
	if !ok {
		return
	}

	if err := h.photoService.Delete(r.Context(), userID, photoID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *PhotoHandler) photoParams(w http.ResponseWriter, r *http.Request) (userID, photoID int64, ok bool) {
	userID, ok = pathID(w, r, "id")
	if !ok {
		return 0, 0, false
	}
	if userID != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot manage another user's photos", http.StatusUnauthorized)
		return 0, 0, false
	}
	photoID, ok = pathID(w, r, "photoId")
	if !ok {
		return 0, 0, false
	}
	return userID, photoID, true
}
