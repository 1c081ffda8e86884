package repository

import (
	"context"
	"errors"

	"github.com/dialdirectory/web/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTemplateRepository is the PostgreSQL implementation of TemplateRepository.
type PgTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewPgTemplateRepository creates a PgTemplateRepository backed by the given pool.
func NewPgTemplateRepository(pool *pgxpool.Pool) *PgTemplateRepository {
	return &PgTemplateRepository{pool: pool}
}

var _ TemplateRepository = (*PgTemplateRepository)(nil)

const templateSelect = `SELECT id, name, slug, file_key, created_at FROM category_templates`

func scanTemplate(scan func(...any) error) (*model.CategoryTemplate, error) {
	var t model.CategoryTemplate
	if err := scan(&t.ID, &t.Name, &t.Slug, &t.FileKey, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTemplateRepository) List(ctx context.Context) ([]*model.CategoryTemplate, error) {
	rows, err := r.pool.Query(ctx, templateSelect+` ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*model.CategoryTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *PgTemplateRepository) GetByID(ctx context.Context, id int64) (*model.CategoryTemplate, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx, templateSelect+` WHERE id = $1`, id).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *PgTemplateRepository) GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx, templateSelect+` WHERE slug = $1`, slug).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *PgTemplateRepository) Create(ctx context.Context, t *model.CategoryTemplate) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO category_templates (name, slug, file_key) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.Name, t.Slug, t.FileKey,
	).Scan(&t.ID, &t.CreatedAt)
	return mapConflict(err)
}

// Delete removes the template; categories.template_id is ON DELETE SET NULL.
func (r *PgTemplateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
