package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/slug"
	"github.com/dialdirectory/web/internal/storage"
)

const (
	maxSlugAttempts = 5
	fallbackSlug    = "listing"
)

// ListingServiceImpl implements ListingService.
type ListingServiceImpl struct {
	repo    repository.ListingRepository
	storage storage.Storage
}

// NewListingService creates a ListingService.
func NewListingService(repo repository.ListingRepository, store storage.Storage) ListingService {
	return &ListingServiceImpl{repo: repo, storage: store}
}

func (s *ListingServiceImpl) Search(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error) {
	return s.repo.List(ctx, f)
}

func (s *ListingServiceImpl) Featured(ctx context.Context, limit int) ([]*model.Listing, error) {
	featured, err := s.repo.List(ctx, model.ListingFilter{FeaturedOnly: true, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("featured listings: %w", err)
	}
	if len(featured) > 0 {
		return featured, nil
	}
	return s.repo.List(ctx, model.ListingFilter{Limit: limit})
}

func (s *ListingServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *ListingServiceImpl) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// Create picks the first free slug among base, base-1, base-2, ... and
// inserts. A concurrent insert that claims the same slug first makes the
// unique constraint fire; the slugs are then reloaded and the next free one
// is tried.
func (s *ListingServiceImpl) Create(ctx context.Context, l *model.Listing) error {
	base := slug.Make(l.Title)
	if base == "" {
		base = fallbackSlug
	}

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		existing, err := s.repo.SlugsWithBase(ctx, base)
		if err != nil {
			return fmt.Errorf("load slugs: %w", err)
		}
		l.Slug = slug.Next(base, slug.Set(existing))

		err = s.repo.Create(ctx, l)
		if err == nil {
			slog.Info("listing created", "listing_id", l.ID, "slug", l.Slug)
			return nil
		}
		if !errors.Is(err, repository.ErrSlugConflict) {
			return fmt.Errorf("create listing: %w", err)
		}
		slog.Warn("listing slug conflict, retrying", "slug", l.Slug, "attempt", attempt)
	}
	return fmt.Errorf("create listing: %w", repository.ErrSlugConflict)
}

func (s *ListingServiceImpl) Update(ctx context.Context, l *model.Listing) error {
	current, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	l.Slug = current.Slug
	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if current.ImageURL != "" && current.ImageURL != l.ImageURL {
		removeUpload(ctx, s.storage, current.ImageURL)
	}
	return nil
}

func (s *ListingServiceImpl) Delete(ctx context.Context, id int64) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if l.ImageURL != "" {
		removeUpload(ctx, s.storage, l.ImageURL)
	}
	slog.Info("listing deleted", "listing_id", id, "slug", l.Slug)
	return nil
}

func (s *ListingServiceImpl) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	return s.repo.ToggleFeatured(ctx, id)
}

// removeUpload deletes a stored file by its public URL. Failures are only
// logged since the row change has already been committed.
func removeUpload(ctx context.Context, store storage.Storage, url string) {
	key := store.KeyFromURL(url)
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		slog.Warn("upload removal failed", "key", key, "error", err)
	}
}
