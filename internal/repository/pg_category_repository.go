package repository

import (
	"context"
	"errors"

	"github.com/dialdirectory/web/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgCategoryRepository is the PostgreSQL implementation of CategoryRepository.
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPgCategoryRepository creates a PgCategoryRepository backed by the given pool.
func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

var _ CategoryRepository = (*PgCategoryRepository)(nil)

const categorySelect = `SELECT c.id, c.name, c.slug, c.icon_url, c.template_id, c.created_at,
	COALESCE(t.slug, ''),
	(SELECT COUNT(*) FROM listings l WHERE l.category_id = c.id)
	FROM categories c LEFT JOIN category_templates t ON t.id = c.template_id`

func scanCategory(scan func(...any) error) (*model.Category, error) {
	var c model.Category
	if err := scan(&c.ID, &c.Name, &c.Slug, &c.IconURL, &c.TemplateID, &c.CreatedAt,
		&c.TemplateSlug, &c.ListingCount); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (r *PgCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx, categorySelect+` ORDER BY c.name, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgCategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

func (r *PgCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, categorySelect+` WHERE c.id = $1`, id).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *PgCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, categorySelect+` WHERE c.slug = $1`, slug).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Create inserts a category. A taken slug yields ErrSlugConflict and a
// template already bound elsewhere yields ErrTemplateInUse.
func (r *PgCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug, icon_url, template_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Name, c.Slug, c.IconURL, c.TemplateID,
	).Scan(&c.ID, &c.CreatedAt)
	return mapConflict(err)
}

func (r *PgCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, slug = $2, icon_url = $3, template_id = $4 WHERE id = $5`,
		c.Name, c.Slug, c.IconURL, c.TemplateID, c.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the category. listings.category_id is ON DELETE SET NULL,
// so referencing listings survive uncategorised.
func (r *PgCategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
