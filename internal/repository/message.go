package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const summaryColumns = `m.id, m.sender_id, m.recipient_id, m.content, m.sent_at,
	m.is_read, m.read_at, m.sender_deleted, m.recipient_deleted,
	s.known_as, COALESCE((SELECT url FROM photos WHERE user_id = s.id AND is_main), ''),
	r.known_as, COALESCE((SELECT url FROM photos WHERE user_id = r.id AND is_main), '')`

const summaryJoins = `
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.recipient_id`

// Create inserts a message and fills in the generated id.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, content, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, msg.SenderID, msg.RecipientID, msg.Content, msg.SentAt).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", translateConstraint(err))
	}
	return nil
}

// GetByID retrieves a message by id.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, content, sent_at, is_read, read_at,
			sender_deleted, recipient_deleted
		FROM messages
		WHERE id = $1
	`
	var m models.Message
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.SentAt,
		&m.IsRead, &m.ReadAt, &m.SenderDeleted, &m.RecipientDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

// MarkRead sets the read flag and timestamp. Idempotency is the service's
// concern; the guard here only keeps the first read timestamp intact.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE messages SET is_read = TRUE, read_at = $1 WHERE id = $2 AND NOT is_read`
	if _, err := r.db.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// DeleteForParty sets one party's deleted flag and, when both flags are then
// set, removes the row. Flag update and removal happen in one transaction so
// no reader observes a both-deleted message.
func (r *MessageRepository) DeleteForParty(ctx context.Context, id int64, forSender bool) (purged bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE messages
		SET sender_deleted = sender_deleted OR $2,
			recipient_deleted = recipient_deleted OR $3
		WHERE id = $1
		RETURNING sender_deleted, recipient_deleted
	`
	var senderDeleted, recipientDeleted bool
	err = tx.QueryRow(ctx, query, id, forSender, !forSender).Scan(&senderDeleted, &recipientDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
		}
		return false, fmt.Errorf("failed to set deleted flag: %w", err)
	}

	if senderDeleted && recipientDeleted {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
			return false, fmt.Errorf("failed to purge message: %w", err)
		}
		purged = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit tx: %w", err)
	}
	return purged, nil
}

// ListForUser returns one page of a user's message container plus the total
// count, both read from the same snapshot.
func (r *MessageRepository) ListForUser(ctx context.Context, q models.MessageQuery) ([]models.MessageSummary, int, error) {
	var where string
	switch q.Container {
	case models.ContainerInbox:
		where = `m.recipient_id = $1 AND NOT m.recipient_deleted`
	case models.ContainerOutbox:
		where = `m.sender_id = $1 AND NOT m.sender_deleted`
	default:
		where = `m.recipient_id = $1 AND NOT m.recipient_deleted AND NOT m.is_read`
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	countSQL := `SELECT COUNT(*) FROM messages m WHERE ` + where
	if err := tx.QueryRow(ctx, countSQL, q.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	page := q.Page.Normalize()
	listSQL := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE ` + where + `
		ORDER BY m.sent_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := tx.Query(ctx, listSQL, q.UserID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit tx: %w", err)
	}
	return messages, total, nil
}

// Thread returns the conversation between two users, newest first. Each
// side's deletion hides only that side's view: messages the first user sent
// are skipped once sender-deleted, messages they received once
// recipient-deleted.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID int64) ([]models.MessageSummary, error) {
	query := `SELECT ` + summaryColumns + summaryJoins + `
		WHERE (m.sender_id = $1 AND m.recipient_id = $2 AND NOT m.sender_deleted)
		   OR (m.sender_id = $2 AND m.recipient_id = $1 AND NOT m.recipient_deleted)
		ORDER BY m.sent_at DESC`
	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]models.MessageSummary, error) {
	messages := []models.MessageSummary{}
	for rows.Next() {
		var m models.MessageSummary
		err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.SentAt,
			&m.IsRead, &m.ReadAt, &m.SenderDeleted, &m.RecipientDeleted,
			&m.SenderKnownAs, &m.SenderPhotoURL, &m.RecipientKnownAs, &m.RecipientPhotoURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
