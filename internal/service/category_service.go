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

// CategoryService manages categories and resolves category pages.
type CategoryService interface {
	// List returns every category ordered by name.
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	// Resolve decides how /category/<slug>/ renders: a redirect to the
	// category's template page, or the category's listings newest first.
	Resolve(ctx context.Context, slug string) (*model.CategoryResolution, error)
	// Create stores c, deriving the slug from the name when blank.
	Create(ctx context.Context, c *model.Category) error
	// Update stores c. A blank slug keeps the current one.
	Update(ctx context.Context, c *model.Category) error
	// Delete removes the category and its icon. Its listings remain
	// uncategorized.
	Delete(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	categories repository.CategoryRepository
	listings   repository.ListingRepository
	storage    storage.Storage
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categories repository.CategoryRepository, listings repository.ListingRepository, store storage.Storage) CategoryService {
	return &categoryServiceImpl{categories: categories, listings: listings, storage: store}
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*model.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryServiceImpl) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *categoryServiceImpl) Resolve(ctx context.Context, categorySlug string) (*model.CategoryResolution, error) {
	c, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if c.HasTemplate() {
		return &model.CategoryResolution{Category: c, RedirectPath: "/t/" + c.TemplateSlug + "/"}, nil
	}
	listings, err := s.listings.List(ctx, model.ListingFilter{CategoryID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("category listings: %w", err)
	}
	return &model.CategoryResolution{Category: c, Listings: listings}, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, c *model.Category) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if c.Slug == "" {
		return ErrSlugRequired
	}
	if !slug.Valid(c.Slug) {
		return ErrSlugInvalid
	}
	if err := mapCategoryConflict(s.categories.Create(ctx, c)); err != nil {
		return err
	}
	slog.Info("category created", "category_id", c.ID, "slug", c.Slug)
	return nil
}

func (s *categoryServiceImpl) Update(ctx context.Context, c *model.Category) error {
	current, err := s.categories.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if c.Slug == "" {
		c.Slug = current.Slug
	}
	if !slug.Valid(c.Slug) {
		return ErrSlugInvalid
	}
	if err := mapCategoryConflict(s.categories.Update(ctx, c)); err != nil {
		return err
	}
	if current.IconURL != "" && current.IconURL != c.IconURL {
		removeUpload(ctx, s.storage, current.IconURL)
	}
	return nil
}

func (s *categoryServiceImpl) Delete(ctx context.Context, id int64) error {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if c.IconURL != "" {
		removeUpload(ctx, s.storage, c.IconURL)
	}
	slog.Info("category deleted", "category_id", id, "slug", c.Slug)
	return nil
}

func mapCategoryConflict(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlugConflict):
		return ErrSlugTaken
	case errors.Is(err, repository.ErrTemplateInUse):
		return ErrTemplateInUse
	default:
		return fmt.Errorf("save category: %w", err)
	}
}
