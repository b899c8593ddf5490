package repository

import (
	"context"
	"errors"
	"fmt"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create inserts a photo and fills in the generated id. The user's first
// photo becomes main; the check and insert share a transaction so two
// concurrent first uploads cannot both claim main.
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var hasMain bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM photos WHERE user_id = $1 AND is_main)`,
		photo.UserID,
	).Scan(&hasMain)
	if err != nil {
		return fmt.Errorf("failed to check main photo: %w", err)
	}
	photo.IsMain = !hasMain

	query := `
		INSERT INTO photos (user_id, url, public_id, is_main, is_approved, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		photo.UserID, photo.URL, photo.PublicID, photo.IsMain, photo.IsApproved, photo.AddedAt,
	).Scan(&photo.ID)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", translateConstraint(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by id.
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `
		SELECT id, user_id, url, public_id, is_main, is_approved, added_at
		FROM photos
		WHERE id = $1
	`
	var p models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.IsMain, &p.IsApproved, &p.AddedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &p, nil
}

// SetMain promotes a photo to main. Demoting the current main and promoting
// the new one happen in one transaction, so readers never see zero or two
// main photos for the user.
func (r *PhotoRepository) SetMain(ctx context.Context, userID, photoID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = FALSE WHERE user_id = $1 AND is_main`, userID,
	); err != nil {
		return fmt.Errorf("failed to demote main photo: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE photos SET is_main = TRUE WHERE id = $1 AND user_id = $2`, photoID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to promote photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

// Delete removes a photo row.
func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
