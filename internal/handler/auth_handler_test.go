package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/pkg/auth"
)

func newAuthHandler(as *mockAuthService) (*AuthHandler, *fakeRenderer, *mockSessionManager) {
	r := &fakeRenderer{}
	sm := &mockSessionManager{}
	return NewAuthHandler(r, as, sm, true), r, sm
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName() {
			return c
		}
	}
	return nil
}

func TestAuthHandler_LoginForm_KeepsNext(t *testing.T) {
	h, r, _ := newAuthHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.LoginForm(rec, httptest.NewRequest("GET", "/login/?next=/dashboard/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if r.form(t).Next != "/dashboard/" {
		t.Errorf("Next = %q", r.form(t).Next)
	}
}

func TestAuthHandler_LoginForm_AlreadyLoggedIn(t *testing.T) {
	h, _, _ := newAuthHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.LoginForm(rec, asUser(httptest.NewRequest("GET", "/login/", nil), 1, false))

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	as := &mockAuthService{
		authenticateFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			if username != "ann" || password != " secret pw " {
				t.Errorf("got %q %q", username, password)
			}
			return &model.User{ID: 5, Username: "ann"}, nil
		},
	}
	h, _, sm := newAuthHandler(as)

	req := postForm("/login/", url.Values{
		"username": {" ann "},
		"password": {" secret pw "},
		"next":     {"/add-listing/"},
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/add-listing/" {
		t.Errorf("Location = %q", loc)
	}
	if len(sm.created) != 1 || sm.created[0] != 5 {
		t.Errorf("sessions created = %v", sm.created)
	}
	c := sessionCookie(rec)
	if c == nil || c.Value != "tok" || !c.HttpOnly || !c.Secure {
		t.Errorf("unexpected cookie: %+v", c)
	}
}

func TestAuthHandler_Login_RejectsOffsiteNext(t *testing.T) {
	h, _, _ := newAuthHandler(&mockAuthService{})

	req := postForm("/login/", url.Values{
		"username": {"ann"},
		"password": {"pw"},
		"next":     {"//evil.example.com/"},
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	as := &mockAuthService{
		authenticateFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	h, r, sm := newAuthHandler(as)

	req := postForm("/login/", url.Values{"username": {"ann"}, "password": {"wrong"}})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if r.form(t).NonField == "" {
		t.Error("expected non-field error")
	}
	if len(sm.created) != 0 || sessionCookie(rec) != nil {
		t.Error("no session should be started")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _, sm := newAuthHandler(&mockAuthService{})

	req := httptest.NewRequest("POST", "/logout/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName(), Value: "abc"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if len(sm.deleted) != 1 || sm.deleted[0] != "abc" {
		t.Errorf("deleted = %v", sm.deleted)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %+v", c)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	var gotPassword string
	as := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string) (*model.User, error) {
			gotPassword = password
			return &model.User{ID: 9, Username: username}, nil
		},
	}
	h, _, sm := newAuthHandler(as)

	req := postForm("/register/", url.Values{
		"username":  {"ann"},
		"email":     {"ann@example.com"},
		"password1": {"correct horse"},
		"password2": {"correct horse"},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if gotPassword != "correct horse" {
		t.Errorf("password = %q", gotPassword)
	}
	if len(sm.created) != 1 || sm.created[0] != 9 {
		t.Errorf("sessions created = %v", sm.created)
	}
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	called := false
	as := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string) (*model.User, error) {
			called = true
			return nil, nil
		},
	}
	h, r, _ := newAuthHandler(as)

	req := postForm("/register/", url.Values{
		"username":  {"ann"},
		"email":     {"ann@example.com"},
		"password1": {"correct horse"},
		"password2": {"battery staple"},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if called {
		t.Error("service should not be called")
	}
	fd := r.form(t)
	if fd.Errors.Get("password2") == "" {
		t.Error("expected password2 error")
	}
	if _, ok := fd.Values["password1"]; ok {
		t.Error("passwords must not be echoed back")
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	as := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string) (*model.User, error) {
			return nil, service.ErrUsernameTaken
		},
	}
	h, r, sm := newAuthHandler(as)

	req := postForm("/register/", url.Values{
		"username":  {"Ann"},
		"email":     {"ann@example.com"},
		"password1": {"correct horse"},
		"password2": {"correct horse"},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if r.form(t).Errors.Get("username") == "" {
		t.Error("expected username error")
	}
	if len(sm.created) != 0 {
		t.Error("no session should be started")
	}
}

func TestAuthHandler_Register_PasswordTooLong(t *testing.T) {
	as := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string) (*model.User, error) {
			return nil, service.ErrPasswordTooLong
		},
	}
	h, r, sm := newAuthHandler(as)

	pw := strings.Repeat("a", 100)
	req := postForm("/register/", url.Values{
		"username":  {"ann"},
		"email":     {"ann@example.com"},
		"password1": {pw},
		"password2": {pw},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if r.form(t).Errors.Get("password1") == "" {
		t.Error("expected password1 error")
	}
	if len(sm.created) != 0 {
		t.Error("no session should be created")
	}
}

func TestAuthHandler_Register_PasswordTooShort(t *testing.T) {
	as := &mockAuthService{
		registerFunc: func(ctx context.Context, username, email, password string) (*model.User, error) {
			return nil, service.ErrPasswordTooShort
		},
	}
	h, r, _ := newAuthHandler(as)

	req := postForm("/register/", url.Values{
		"username":  {"ann"},
		"email":     {"ann@example.com"},
		"password1": {"short"},
		"password2": {"short"},
	})
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if r.form(t).Errors.Get("password1") == "" {
		t.Error("expected password1 error")
	}
}
