package repository

import (
	"context"
	"fmt"

	"matcha-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles database operations for like edges
type LikeRepository struct {
	db *pgxpool.Pool
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like edge. A duplicate ordered pair surfaces as
// apperr.ErrConflict, a missing endpoint as apperr.ErrNotFound.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (liker_id, likee_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, like.LikerID, like.LikeeID, like.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create like: %w", translateConstraint(err))
	}
	return nil
}

// Exists reports whether the ordered (liker, likee) edge is present.
func (r *LikeRepository) Exists(ctx context.Context, likerID, likeeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND likee_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, likerID, likeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return exists, nil
}

// LikerIDs returns the ids of all users who like the given user. The result
// is empty, never nil, when no edges exist.
func (r *LikeRepository) LikerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT liker_id FROM likes WHERE likee_id = $1`, userID)
}

// LikeeIDs returns the ids of all users the given user likes.
func (r *LikeRepository) LikeeIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT likee_id FROM likes WHERE liker_id = $1`, userID)
}

func (r *LikeRepository) ids(ctx context.Context, query string, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query like ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like ids: %w", err)
	}
	return ids, nil
}
