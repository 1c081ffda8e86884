package repository

import (
	"context"

	"github.com/dialdirectory/web/internal/model"
)

// DB is the liveness check the health endpoint needs.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository persists accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Create returns ErrUsernameConflict when the username is taken.
	Create(ctx context.Context, user *model.User) error
	SetStaff(ctx context.Context, username string, staff bool) error
}

// SessionRepository handles persistence for user sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

// ListingRepository persists listings.
type ListingRepository interface {
	List(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error)
	Count(ctx context.Context, f model.ListingFilter) (int, error)
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*model.Listing, error)
	// SlugsWithBase returns base and every base-N slug currently stored.
	SlugsWithBase(ctx context.Context, base string) ([]string, error)
	// Create inserts l with l.Slug as given and returns ErrSlugConflict
	// when another row already holds it.
	Create(ctx context.Context, l *model.Listing) error
	// Update writes every editable field; the slug is left untouched.
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id int64) error
	ToggleFeatured(ctx context.Context, id int64) (bool, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	// List returns every category ordered by name with its template slug
	// and listing count.
	List(ctx context.Context) ([]*model.Category, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	// Delete removes the category; listings keep their rows with a null category.
	Delete(ctx context.Context, id int64) error
}

// TemplateRepository persists uploaded category templates.
type TemplateRepository interface {
	List(ctx context.Context) ([]*model.CategoryTemplate, error)
	GetByID(ctx context.Context, id int64) (*model.CategoryTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error)
	Create(ctx context.Context, t *model.CategoryTemplate) error
	// Delete removes the template; categories using it fall back to listing directly.
	Delete(ctx context.Context, id int64) error
}

// ContactRepository defines the persistence interface for contact messages.
type ContactRepository interface {
	Save(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int64) error
}
