// Package repository implements the data-access layer on PostgreSQL via pgx.
// Repositories translate driver errors into the shared apperr kinds at this
// boundary: pgx.ErrNoRows becomes apperr.ErrNotFound and unique-constraint
// violations become apperr.ErrConflict, so services never see driver types.
package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"matcha-backend/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ApplySchema creates the tables and indexes if they do not exist yet.
// Statements are idempotent, so running it on every start is safe.
func ApplySchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// translateConstraint maps constraint violations onto the error taxonomy:
// duplicate keys are conflicts, broken foreign keys mean a referenced row is
// absent. Other errors pass through unchanged.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: duplicate %s", apperr.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: missing reference %s", apperr.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}
