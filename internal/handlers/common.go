package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps an error kind to its status code.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	}
	respondError(w, err.Error(), status)
}

// addPagination exposes the page metadata in a Pagination response header,
// keeping it out of the item payload.
func addPagination(w http.ResponseWriter, info models.PageInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	w.Header().Set("Pagination", string(data))
	w.Header().Set("Access-Control-Expose-Headers", "Pagination")
}
