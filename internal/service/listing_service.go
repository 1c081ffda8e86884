package service

import (
	"context"

	"github.com/dialdirectory/web/internal/model"
)

// HomeFeaturedLimit is how many listings the home page shows.
const HomeFeaturedLimit = 6

// ListingService is the business logic around directory listings.
type ListingService interface {
	// Search returns listings matching f, newest first. An empty filter
	// returns every listing.
	Search(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error)
	// Featured returns up to limit featured listings, falling back to the
	// newest listings when none are featured.
	Featured(ctx context.Context, limit int) ([]*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	// Create assigns a unique slug derived from the title and stores l.
	Create(ctx context.Context, l *model.Listing) error
	// Update stores the editable fields of l. The slug is kept.
	Update(ctx context.Context, l *model.Listing) error
	// Delete removes the listing and its uploaded image.
	Delete(ctx context.Context, id int64) error
	ToggleFeatured(ctx context.Context, id int64) (bool, error)
}
