package repository

import (
	"context"
	"errors"

	"github.com/dialdirectory/web/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgListingRepository is the PostgreSQL implementation of ListingRepository.
type PgListingRepository struct {
	pool *pgxpool.Pool
}

// NewPgListingRepository creates a PgListingRepository backed by the given pool.
func NewPgListingRepository(pool *pgxpool.Pool) *PgListingRepository {
	return &PgListingRepository{pool: pool}
}

var _ ListingRepository = (*PgListingRepository)(nil)

func scanListing(scan func(...any) error) (*model.Listing, error) {
	var l model.Listing
	if err := scan(&l.ID, &l.Title, &l.Slug, &l.Description, &l.ImageURL, &l.Phone, &l.Email,
		&l.Website, &l.Address, &l.City, &l.State, &l.CategoryID, &l.Featured, &l.CreatedAt, &l.UpdatedAt,
		&l.CategoryName, &l.CategorySlug); err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns listings matching f, newest first.
func (r *PgListingRepository) List(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error) {
	query, args := buildListingQuery(f)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Count returns how many listings match f; Limit and Offset are ignored.
func (r *PgListingRepository) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	where, args := buildListingWhere(f)
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings l`+where, args...).Scan(&n)
	return n, err
}

func (r *PgListingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	return r.getOne(ctx, listingSelect+` WHERE l.id = $1`, id)
}

func (r *PgListingRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	return r.getOne(ctx, listingSelect+` WHERE l.slug = $1`, slug)
}

func (r *PgListingRepository) getOne(ctx context.Context, query string, arg any) (*model.Listing, error) {
	l, err := scanListing(r.pool.QueryRow(ctx, query, arg).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

// SlugsWithBase returns base itself and every "base-<suffix>" slug in use.
func (r *PgListingRepository) SlugsWithBase(ctx context.Context, base string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT slug FROM listings WHERE slug = $1 OR slug LIKE $2 ESCAPE '\'`,
		base, likeEscaper.Replace(base)+"-%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// Create inserts a listing and populates ID and timestamps from RETURNING.
func (r *PgListingRepository) Create(ctx context.Context, l *model.Listing) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO listings (title, slug, description, image_url, phone, email, website,
		                       address, city, state, category_id, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		l.Title, l.Slug, l.Description, l.ImageURL, l.Phone, l.Email, l.Website,
		l.Address, l.City, l.State, l.CategoryID, l.Featured,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return mapConflict(err)
}

// Update writes the editable fields. The slug column is never touched.
func (r *PgListingRepository) Update(ctx context.Context, l *model.Listing) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE listings SET title = $1, description = $2, image_url = $3, phone = $4, email = $5,
		        website = $6, address = $7, city = $8, state = $9, category_id = $10, featured = $11,
		        updated_at = NOW()
		 WHERE id = $12
		 RETURNING updated_at`,
		l.Title, l.Description, l.ImageURL, l.Phone, l.Email,
		l.Website, l.Address, l.City, l.State, l.CategoryID, l.Featured, l.ID,
	).Scan(&l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PgListingRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (r *PgListingRepository) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	var featured bool
	err := r.pool.QueryRow(ctx,
		`UPDATE listings SET featured = NOT featured, updated_at = NOW() WHERE id = $1 RETURNING featured`,
		id,
	).Scan(&featured)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	return featured, err
}
