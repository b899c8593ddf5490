package handlers

import (
	"encoding/json"
	"net/http"

	"matcha-backend/internal/middleware"
	"matcha-backend/internal/models"
	"matcha-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// requireSelf parses the {id} path parameter and verifies it matches the
// authenticated user. Message routes are all scoped to the acting user.
func requireSelf(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return 0, false
	}
	if id != middleware.GetUserID(r.Context()) {
		respondError(w, "Cannot access another user's messages", http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/users/{id}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	q := models.MessageQuery{
		UserID:    userID,
		Container: models.MessageContainer(query.Get("container")),
		Page: models.PageParams{
			PageNumber: queryInt(query.Get("pageNumber")),
			PageSize:   queryInt(query.Get("pageSize")),
		},
	}

	page, err := h.messageService.ListForUser(r.Context(), q)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	addPagination(w, page.Info)
	respondJSON(w, http.StatusOK, page.Items)
}

// Thread handles GET /api/v1/users/{id}/messages/thread/{recipientId}
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r)
	if !ok {
		return
	}
	otherID, ok := pathID(w, r, "recipientId")
	if !ok {
		return
	}

	messages, err := h.messageService.Thread(r.Context(), userID, otherID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Content     string `json:"content"`
}

// Send handles POST /api/v1/users/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(r.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Int64("message_id", msg.ID).
		Int64("sender_id", userID).
		Int64("recipient_id", req.RecipientID).
		Msg("Message sent")
	respondJSON(w, http.StatusCreated, msg)
}

// MarkRead handles POST /api/v1/users/{id}/messages/{messageId}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r)
	if !ok {
		return
	}
	messageID, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	if err := h.messageService.MarkRead(r.Context(), userID, messageID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles POST /api/v1/users/{id}/messages/{messageId}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireSelf(w, r)
	if !ok {
		return
	}
	messageID, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	if err := h.messageService.DeleteForParty(r.Context(), userID, messageID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
