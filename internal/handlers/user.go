package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"matcha-backend/internal/middleware"
	"matcha-backend/internal/models"
	"matcha-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())

	query := r.URL.Query()
	q := models.UserQuery{
		Gender:  models.Gender(query.Get("gender")),
		MinAge:  queryInt(query.Get("minAge")),
		MaxAge:  queryInt(query.Get("maxAge")),
		Likers:  query.Get("likers") == "true",
		Likees:  query.Get("likees") == "true",
		OrderBy: query.Get("orderBy"),
		Page: models.PageParams{
			PageNumber: queryInt(query.Get("pageNumber")),
			PageSize:   queryInt(query.Get("pageSize")),
		},
	}

	page, err := h.userService.Discover(r.Context(), requesterID, q)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	addPagination(w, page.Info)
	respondJSON(w, http.StatusOK, page.Items)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot update another user's profile", http.StatusUnauthorized)
		return
	}

	var patch models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.Update(r.Context(), id, patch); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /api/v1/users/{id}/like/{recipientId}
func (h *UserHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	recipientID, ok := pathID(w, r, "recipientId")
	if !ok {
		return
	}
	if id != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot like on behalf of another user", http.StatusUnauthorized)
		return
	}

	if err := h.userService.Like(r.Context(), id, recipientID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Int64("liker_id", id).Int64("likee_id", recipientID).Msg("User liked")
	w.WriteHeader(http.StatusNoContent)
}

// Likes handles GET /api/v1/users/{id}/likes
func (h *UserHandler) Likes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot list another user's likes", http.StatusUnauthorized)
		return
	}

	direction := models.LikeDirection(r.URL.Query().Get("direction"))
	if direction == "" {
		direction = models.DirectionLikers
	}

	ids, err := h.userService.Relationships(r.Context(), id, direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ids)
}

// pathID parses an int64 URL parameter, responding with 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		respondError(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
