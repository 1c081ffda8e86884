package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/view"
	"github.com/dialdirectory/web/pkg/auth"
)

// fakeRenderer records the last page rendered and writes its name.
type fakeRenderer struct {
	page string
	data *view.Page
	err  error
}

func (f *fakeRenderer) Render(w io.Writer, page string, p *view.Page) error {
	if f.err != nil {
		return f.err
	}
	f.page = page
	f.data = p
	_, err := io.WriteString(w, "page:"+page)
	return err
}

func (f *fakeRenderer) form(t *testing.T) *view.FormData {
	t.Helper()
	fd, ok := f.data.Content.(*view.FormData)
	if !ok {
		t.Fatalf("content is %T, want *view.FormData", f.data.Content)
	}
	return fd
}

type mockListingService struct {
	searchFunc         func(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error)
	featuredFunc       func(ctx context.Context, limit int) ([]*model.Listing, error)
	getBySlugFunc      func(ctx context.Context, slug string) (*model.Listing, error)
	getByIDFunc        func(ctx context.Context, id int64) (*model.Listing, error)
	createFunc         func(ctx context.Context, l *model.Listing) error
	updateFunc         func(ctx context.Context, l *model.Listing) error
	deleteFunc         func(ctx context.Context, id int64) error
	toggleFeaturedFunc func(ctx context.Context, id int64) (bool, error)
}

func (m *mockListingService) Search(ctx context.Context, f model.ListingFilter) ([]*model.Listing, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockListingService) Featured(ctx context.Context, limit int) ([]*model.Listing, error) {
	if m.featuredFunc != nil {
		return m.featuredFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockListingService) GetBySlug(ctx context.Context, slug string) (*model.Listing, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, repository.ErrNotFound
}

func (m *mockListingService) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockListingService) Create(ctx context.Context, l *model.Listing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, l)
	}
	return nil
}

func (m *mockListingService) Update(ctx context.Context, l *model.Listing) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, l)
	}
	return nil
}

func (m *mockListingService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockListingService) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	if m.toggleFeaturedFunc != nil {
		return m.toggleFeaturedFunc(ctx, id)
	}
	return true, nil
}

type mockCategoryService struct {
	listFunc    func(ctx context.Context) ([]*model.Category, error)
	getByIDFunc func(ctx context.Context, id int64) (*model.Category, error)
	resolveFunc func(ctx context.Context, slug string) (*model.CategoryResolution, error)
	createFunc  func(ctx context.Context, c *model.Category) error
	updateFunc  func(ctx context.Context, c *model.Category) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockCategoryService) List(ctx context.Context) ([]*model.Category, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockCategoryService) Resolve(ctx context.Context, slug string) (*model.CategoryResolution, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, slug)
	}
	return nil, repository.ErrNotFound
}

func (m *mockCategoryService) Create(ctx context.Context, c *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryService) Update(ctx context.Context, c *model.Category) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockTemplateService struct {
	listFunc      func(ctx context.Context) ([]*model.CategoryTemplate, error)
	getBySlugFunc func(ctx context.Context, slug string) (*model.CategoryTemplate, error)
	createFunc    func(ctx context.Context, t *model.CategoryTemplate, filename string, content io.Reader) error
	contentFunc   func(ctx context.Context, t *model.CategoryTemplate) (string, error)
	deleteFunc    func(ctx context.Context, id int64) error
}

func (m *mockTemplateService) List(ctx context.Context) ([]*model.CategoryTemplate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockTemplateService) GetBySlug(ctx context.Context, slug string) (*model.CategoryTemplate, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, repository.ErrNotFound
}

func (m *mockTemplateService) Create(ctx context.Context, t *model.CategoryTemplate, filename string, content io.Reader) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t, filename, content)
	}
	return nil
}

func (m *mockTemplateService) Content(ctx context.Context, t *model.CategoryTemplate) (string, error) {
	if m.contentFunc != nil {
		return m.contentFunc(ctx, t)
	}
	return "", nil
}

func (m *mockTemplateService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockContactService struct {
	submitFunc func(ctx context.Context, msg *model.ContactMessage) error
	listFunc   func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockContactService) Submit(ctx context.Context, msg *model.ContactMessage) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockAuthService struct {
	registerFunc     func(ctx context.Context, username, email, password string) (*model.User, error)
	authenticateFunc func(ctx context.Context, username, password string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, username, email, password)
	}
	return &model.User{ID: 1, Username: username, Email: email}, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username}, nil
}

func (m *mockAuthService) CreateUser(ctx context.Context, username, email, password string, staff bool) (*model.User, error) {
	return &model.User{ID: 1, Username: username, Email: email, IsStaff: staff}, nil
}

func (m *mockAuthService) SetStaff(ctx context.Context, username string, staff bool) error {
	return nil
}

type mockSessionManager struct {
	created []int64
	deleted []string
}

func (m *mockSessionManager) CreateSession(ctx context.Context, userID int64) (*model.Session, error) {
	m.created = append(m.created, userID)
	now := time.Now()
	return &model.Session{Token: "tok", UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
}

func (m *mockSessionManager) DeleteSession(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

// mockValidator maps cookie tokens to principals.
type mockValidator map[string]*auth.Principal

func (m mockValidator) ValidateSession(ctx context.Context, token string) (*auth.Principal, error) {
	if p, ok := m[token]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

// memStorage keeps uploads in memory under the /media prefix.
type memStorage struct {
	files   map[string][]byte
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (s *memStorage) Save(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.files[key] = b
	return "/media/" + key, nil
}

func (s *memStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.files[key])), nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.files, key)
	return nil
}

func (s *memStorage) KeyFromURL(u string) string {
	key, ok := strings.CutPrefix(u, "/media/")
	if !ok {
		return ""
	}
	return key
}

func asUser(r *http.Request, id int64, staff bool) *http.Request {
	p := &auth.Principal{UserID: id, Username: "user", IsStaff: staff}
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

func postForm(target string, vals url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type upload struct {
	field       string
	filename    string
	contentType string
	body        []byte
}

func postMultipart(t *testing.T, target string, vals url.Values, files ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range vals {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.body); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
