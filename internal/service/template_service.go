package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/slug"
	"github.com/dialdirectory/web/internal/storage"
)

// MaxTemplateSize caps an uploaded template document.
const MaxTemplateSize = 1 << 20

// TemplateService manages uploaded category templates.
type TemplateService interface {
	List(ctx context.Context) ([]*model.CategoryTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error)
	// Create stores the uploaded document and then the template row. The
	// slug is derived from the name when blank.
	Create(ctx context.Context, t *model.CategoryTemplate, filename string, content io.Reader) error
	// Content returns the stored HTML. A missing file yields "".
	Content(ctx context.Context, t *model.CategoryTemplate) (string, error)
	// Delete removes the template and its file. Categories using it go
	// back to listing directly.
	Delete(ctx context.Context, id int64) error
}

type templateServiceImpl struct {
	repo    repository.TemplateRepository
	storage storage.Storage
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(repo repository.TemplateRepository, store storage.Storage) TemplateService {
	return &templateServiceImpl{repo: repo, storage: store}
}

func (s *templateServiceImpl) List(ctx context.Context) ([]*model.CategoryTemplate, error) {
	return s.repo.List(ctx)
}

func (s *templateServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *templateServiceImpl) Create(ctx context.Context, t *model.CategoryTemplate, filename string, content io.Reader) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	if t.Slug == "" {
		return ErrSlugRequired
	}
	if !slug.Valid(t.Slug) {
		return ErrSlugInvalid
	}

	key := storage.NewKey(storage.KindTemplate, strings.ToLower(path.Ext(filename)))
	if _, err := s.storage.Save(ctx, key, content, "text/html"); err != nil {
		return fmt.Errorf("store template: %w", err)
	}
	t.FileKey = key

	if err := s.repo.Create(ctx, t); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Warn("orphaned template file", "key", key, "error", delErr)
		}
		if errors.Is(err, repository.ErrSlugConflict) {
			return ErrSlugTaken
		}
		return fmt.Errorf("create template: %w", err)
	}
	slog.Info("template created", "template_id", t.ID, "slug", t.Slug)
	return nil
}

func (s *templateServiceImpl) Content(ctx context.Context, t *model.CategoryTemplate) (string, error) {
	rc, err := s.storage.Open(ctx, t.FileKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidKey) {
			slog.Warn("template file missing", "template_id", t.ID, "key", t.FileKey)
			return "", nil
		}
		return "", fmt.Errorf("open template: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, MaxTemplateSize))
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(b), nil
}

func (s *templateServiceImpl) Delete(ctx context.Context, id int64) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, t.FileKey); err != nil {
		slog.Warn("template file removal failed", "key", t.FileKey, "error", err)
	}
	slog.Info("template deleted", "template_id", id, "slug", t.Slug)
	return nil
}
