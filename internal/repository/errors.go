package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// Unique-constraint conflicts, mapped from SQLSTATE 23505 by constraint name.
var (
	ErrSlugConflict     = errors.New("slug already in use")
	ErrUsernameConflict = errors.New("username already in use")
	ErrTemplateInUse    = errors.New("template already assigned to another category")
)

const uniqueViolation = "23505"

// constraintErrors maps the unique constraints declared in migrations to
// the sentinel each one surfaces as.
var constraintErrors = map[string]error{
	"listings_slug_key":           ErrSlugConflict,
	"categories_slug_key":         ErrSlugConflict,
	"category_templates_slug_key": ErrSlugConflict,
	"users_username_key":          ErrUsernameConflict,
	"idx_users_username_lower":    ErrUsernameConflict,
	"categories_template_id_key":  ErrTemplateInUse,
}

// mapConflict converts a unique violation into its sentinel and returns any
// other error unchanged.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if sentinel, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return sentinel
		}
	}
	return err
}
