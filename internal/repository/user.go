package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, known_as, gender, date_of_birth,
	created_at, last_active, introduction, looking_for, interests, city, country, device_token`

// Create inserts a new user and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, known_as, gender, date_of_birth,
			created_at, last_active, introduction, looking_for, interests, city, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.KnownAs, user.Gender, user.DateOfBirth,
		user.CreatedAt, user.LastActive, user.Introduction, user.LookingFor,
		user.Interests, user.City, user.Country,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateConstraint(err))
	}
	return nil
}

// GetByID retrieves a user with their photos. Unapproved photos are only
// included when the caller is the owner.
func (r *UserRepository) GetByID(ctx context.Context, id int64, isOwner bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	photoQuery := `
		SELECT id, user_id, url, public_id, is_main, is_approved, added_at
		FROM photos
		WHERE user_id = $1 AND (is_approved OR $2)
		ORDER BY is_main DESC, added_at
	`
	rows, err := r.db.Query(ctx, photoQuery, id, isOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	defer rows.Close()

	user.Photos = []models.Photo{}
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.PublicID, &p.IsMain, &p.IsApproved, &p.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		user.Photos = append(user.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username, without photos.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// List runs a discovery query and returns one page of summaries plus the
// total match count. Count and slice run in one repeatable-read transaction
// so both observe the same snapshot.
func (r *UserRepository) List(ctx context.Context, q models.UserQuery) ([]models.UserSummary, int, error) {
	countSQL, listSQL, args := buildDiscoverQuery(q, time.Now())

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int
	if err := tx.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := tx.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		var dob time.Time
		err := rows.Scan(&u.ID, &u.Username, &u.KnownAs, &u.Gender, &dob,
			&u.CreatedAt, &u.LastActive, &u.City, &u.Country, &u.PhotoURL)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Age = models.AgeAt(dob, now)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit tx: %w", err)
	}
	return users, total, nil
}

// buildDiscoverQuery assembles the count and list statements for a discovery
// query. The list statement reuses the count statement's arguments and
// appends LIMIT and OFFSET as the final two.
func buildDiscoverQuery(q models.UserQuery, today time.Time) (countSQL, listSQL string, args []any) {
	minDob, maxDob := q.DobBounds(today)

	conds := []string{"u.id <> $1", "u.gender = $2", "u.date_of_birth >= $3", "u.date_of_birth <= $4"}
	args = []any{q.UserID, q.Gender, minDob, maxDob}

	if q.FilterByIDs {
		args = append(args, q.FilterIDs)
		conds = append(conds, fmt.Sprintf("u.id = ANY($%d)", len(args)))
	}

	where := strings.Join(conds, " AND ")
	countSQL = `SELECT COUNT(*) FROM users u WHERE ` + where

	orderBy := "u.last_active DESC"
	if q.OrderBy == models.OrderCreated {
		orderBy = "u.created_at DESC"
	}

	page := q.Page.Normalize()
	args = append(args, page.PageSize, page.Offset())
	listSQL = fmt.Sprintf(`
		SELECT u.id, u.username, u.known_as, u.gender, u.date_of_birth,
			u.created_at, u.last_active, u.city, u.country,
			COALESCE((SELECT p.url FROM photos p WHERE p.user_id = u.id AND p.is_main), '')
		FROM users u
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, where, orderBy, len(args)-1, len(args))

	return countSQL, listSQL, args
}

// Update applies a partial profile update. A patch with no set fields is a
// no-op beyond the existence check.
func (r *UserRepository) Update(ctx context.Context, id int64, patch models.UserUpdate) error {
	sets := []string{}
	args := []any{id}

	add := func(column string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("known_as", patch.KnownAs)
	add("introduction", patch.Introduction)
	add("looking_for", patch.LookingFor)
	add("interests", patch.Interests)
	add("city", patch.City)
	add("country", patch.Country)
	add("device_token", patch.DeviceToken)

	if len(sets) == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
		}
		return nil
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// UpdateLastActive stamps the user's last-active time.
func (r *UserRepository) UpdateLastActive(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_active = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.KnownAs, &u.Gender,
		&u.DateOfBirth, &u.CreatedAt, &u.LastActive, &u.Introduction,
		&u.LookingFor, &u.Interests, &u.City, &u.Country, &u.DeviceToken)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
