package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/dialdirectory/web/internal/model"
)

// ---------------------------------------------------------------------------
// func-field repository mocks
// ---------------------------------------------------------------------------

type mockListingRepository struct {
	listFunc           func(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error)
	countFunc          func(ctx context.Context, f model.ListingFilter) (int, error)
	getByIDFunc        func(ctx context.Context, id int64) (*model.Listing, error)
	getBySlugFunc      func(ctx context.Context, slug string) (*model.Listing, error)
	slugsWithBaseFunc  func(ctx context.Context, base string) ([]string, error)
	createFunc         func(ctx context.Context, l *model.Listing) error
	updateFunc         func(ctx context.Context, l *model.Listing) error
	deleteFunc         func(ctx context.Context, id int64) error
	toggleFeaturedFunc func(ctx context.Context, id int64) (bool, error)
}

func (m *mockListingRepository) List(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockListingRepository) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockListingRepository) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockListingRepository) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockListingRepository) SlugsWithBase(ctx context.Context, base string) ([]string, error) {
	if m.slugsWithBaseFunc != nil {
		return m.slugsWithBaseFunc(ctx, base)
	}
	return nil, nil
}

func (m *mockListingRepository) Create(ctx context.Context, l *model.Listing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Update(ctx context.Context, l *model.Listing) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockListingRepository) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	if m.toggleFeaturedFunc != nil {
		return m.toggleFeaturedFunc(ctx, id)
	}
	return false, nil
}

type mockCategoryRepository struct {
	listFunc      func(ctx context.Context) ([]*model.Category, error)
	countFunc     func(ctx context.Context) (int, error)
	getByIDFunc   func(ctx context.Context, id int64) (*model.Category, error)
	getBySlugFunc func(ctx context.Context, slug string) (*model.Category, error)
	createFunc    func(ctx context.Context, c *model.Category) error
	updateFunc    func(ctx context.Context, c *model.Category) error
	deleteFunc    func(ctx context.Context, id int64) error
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockTemplateRepository struct {
	listFunc      func(ctx context.Context) ([]*model.CategoryTemplate, error)
	getByIDFunc   func(ctx context.Context, id int64) (*model.CategoryTemplate, error)
	getBySlugFunc func(ctx context.Context, slug string) (*model.CategoryTemplate, error)
	createFunc    func(ctx context.Context, t *model.CategoryTemplate) error
	deleteFunc    func(ctx context.Context, id int64) error
}

func (m *mockTemplateRepository) List(ctx context.Context) ([]*model.CategoryTemplate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTemplateRepository) GetByID(ctx context.Context, id int64) (*model.CategoryTemplate, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTemplateRepository) GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockTemplateRepository) Create(ctx context.Context, t *model.CategoryTemplate) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return nil
}

func (m *mockTemplateRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockContactRepository struct {
	saveFunc   func(ctx context.Context, msg *model.ContactMessage) error
	listFunc   func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	countFunc  func(ctx context.Context) (int, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockUserRepository struct {
	findByIDFunc       func(ctx context.Context, id int64) (*model.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	createFunc         func(ctx context.Context, user *model.User) error
	setStaffFunc       func(ctx context.Context, username string, staff bool) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) SetStaff(ctx context.Context, username string, staff bool) error {
	if m.setStaffFunc != nil {
		return m.setStaffFunc(ctx, username, staff)
	}
	return nil
}

type mockSessionRepository struct {
	createFunc         func(ctx context.Context, s *model.Session) error
	findByTokenFunc    func(ctx context.Context, token string) (*model.Session, error)
	deleteByTokenFunc  func(ctx context.Context, token string) error
	deleteByUserIDFunc func(ctx context.Context, userID int64) error
}

func (m *mockSessionRepository) Create(ctx context.Context, s *model.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if m.findByTokenFunc != nil {
		return m.findByTokenFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFunc != nil {
		return m.deleteByTokenFunc(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// memStorage is an in-memory storage.Storage.
// ---------------------------------------------------------------------------

type memStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (s *memStorage) Save(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = b
	return "/media/" + key, nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", key, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) KeyFromURL(url string) string {
	key, ok := strings.CutPrefix(url, "/media/")
	if !ok {
		return ""
	}
	return key
}
