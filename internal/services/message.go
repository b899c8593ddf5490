package services

import (
	"context"
	"fmt"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// MessageService handles the message lifecycle: sending, read receipts,
// per-party deletion and the listing views.
type MessageService struct {
	messages MessageStore
	users    UserStore
	feed     *WSHub
	pusher   Pusher
}

// NewMessageService creates a new message service. feed and pusher may be
// nil when the realtime and push integrations are disabled.
func NewMessageService(messages MessageStore, users UserStore, feed *WSHub, pusher Pusher) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		feed:     feed,
		pusher:   pusher,
	}
}

// Send creates a message from sender to recipient. Both parties must exist.
// Delivery to the recipient's open websocket, or a push notification when
// they are offline, happens after the message is stored.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID int64, content string) (*models.MessageSummary, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperr.ErrValidation)
	}

	sender, err := s.users.GetByID(ctx, senderID, false)
	if err != nil {
		return nil, err
	}
	recipient, err := s.users.GetByID(ctx, recipientID, false)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		SentAt:      time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	summary := &models.MessageSummary{
		Message:           *msg,
		SenderKnownAs:     sender.KnownAs,
		SenderPhotoURL:    sender.MainPhotoURL(),
		RecipientKnownAs:  recipient.KnownAs,
		RecipientPhotoURL: recipient.MainPhotoURL(),
	}

	go s.deliver(recipient, summary)

	return summary, nil
}

// deliver pushes a stored message to the recipient: over their websocket
// when connected, otherwise as a push notification when they registered a
// device token. Delivery failures are logged, never surfaced to the sender.
func (s *MessageService) deliver(recipient *models.User, msg *models.MessageSummary) {
	if s.feed != nil && s.feed.IsOnline(recipient.ID) {
		if err := s.feed.SendToUser(recipient.ID, WSMessage{Type: "message_new", Data: msg}); err == nil {
			return
		}
	}
	if s.pusher == nil || recipient.DeviceToken == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.pusher.Push(ctx, *recipient.DeviceToken, msg.SenderKnownAs, msg.Content); err != nil {
		log.Error().Err(err).Int64("recipient_id", recipient.ID).Msg("Failed to push message notification")
	}
}

// MarkRead marks a message read. Only the recipient may do so; repeating the
// call is a no-op that keeps the original read timestamp.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.RecipientID != userID {
		return fmt.Errorf("%w: only the recipient can mark a message read", apperr.ErrUnauthorized)
	}
	if msg.IsRead {
		return nil
	}
	if err := s.messages.MarkRead(ctx, messageID, time.Now()); err != nil {
		return err
	}

	if s.feed != nil && s.feed.IsOnline(msg.SenderID) {
		go func() {
			_ = s.feed.SendToUser(msg.SenderID, WSMessage{Type: "message_read", Data: messageID})
		}()
	}
	return nil
}

// DeleteForParty hides a message from the calling party's views. Once both
// parties have deleted it, the message is physically removed and can never
// reappear in any thread or listing.
func (s *MessageService) DeleteForParty(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		return fmt.Errorf("%w: not a party to this message", apperr.ErrUnauthorized)
	}

	purged, err := s.messages.DeleteForParty(ctx, messageID, msg.SenderID == userID)
	if err != nil {
		return err
	}
	if purged {
		log.Debug().Int64("message_id", messageID).Msg("Message purged after both parties deleted")
	}
	return nil
}

// ListForUser returns one page of the user's requested container: Inbox,
// Outbox or Unread (the default).
func (s *MessageService) ListForUser(ctx context.Context, q models.MessageQuery) (models.Page[models.MessageSummary], error) {
	var empty models.Page[models.MessageSummary]
	if !q.Container.IsValid() {
		return empty, fmt.Errorf("%w: unknown container %q", apperr.ErrValidation, q.Container)
	}

	q.Page = q.Page.Normalize()
	messages, total, err := s.messages.ListForUser(ctx, q)
	if err != nil {
		return empty, err
	}
	return models.NewPage(messages, total, q.Page), nil
}

// Thread returns the conversation between the user and another party,
// newest first, honoring each side's deletion flags.
func (s *MessageService) Thread(ctx context.Context, userID, otherID int64) ([]models.MessageSummary, error) {
	return s.messages.Thread(ctx, userID, otherID)
}
