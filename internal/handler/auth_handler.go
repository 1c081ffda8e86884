package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/view"
	"github.com/dialdirectory/web/pkg/auth"
)

// SessionManager issues and revokes login sessions.
type SessionManager interface {
	CreateSession(ctx context.Context, userID int64) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// AuthHandler handles login, logout and registration.
type AuthHandler struct {
	pages
	authService   service.AuthService
	sessions      SessionManager
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(v Renderer, authService service.AuthService, sessions SessionManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{pages: pages{view: v}, authService: authService, sessions: sessions, secureCookies: secureCookies}
}

// LoginForm handles GET /login/.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if _, ok := auth.PrincipalFromContext(r.Context()); ok {
		http.Redirect(w, r, auth.SafeRedirect(next, "/"), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, view.PageLogin, "Log in", &view.FormData{
		Values: form.Values{},
		Errors: form.Errors{},
		Next:   next,
	})
}

// Login handles POST /login/.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	vals, errs := form.Validate(r.PostForm, form.LoginFields)
	data := &view.FormData{Values: vals, Errors: errs, Next: r.PostForm.Get("next")}
	if errs.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageLogin, "Log in", data)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), vals.Get("username"), r.PostForm.Get("password"))
	if errors.Is(err, service.ErrInvalidCredentials) {
		data.NonField = "Please enter a correct username and password. Note that both fields may be case-sensitive."
		h.render(w, r, http.StatusUnprocessableEntity, view.PageLogin, "Log in", data)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if err := h.startSession(w, r, user); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, auth.SafeRedirect(data.Next, "/"), http.StatusFound)
}

// Logout handles GET and POST /logout/.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName()); err == nil && cookie.Value != "" {
		if err := h.sessions.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.Warn("session delete failed", "error", err)
		}
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RegisterForm handles GET /register/.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageRegister, "Register", &view.FormData{
		Values: form.Values{},
		Errors: form.Errors{},
	})
}

// Register handles POST /register/. The new account is logged in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	vals, errs := form.Validate(r.PostForm, form.RegisterFields)
	// Passwords are checked untrimmed and never echoed back.
	password := r.PostForm.Get("password1")
	if vals.Get("password1") != "" && vals.Get("password2") != "" && password != r.PostForm.Get("password2") {
		errs.Add("password2", "The two password fields didn't match.")
	}
	delete(vals, "password1")
	delete(vals, "password2")
	data := &view.FormData{Values: vals, Errors: errs}
	if errs.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageRegister, "Register", data)
		return
	}

	user, err := h.authService.Register(r.Context(), vals.Get("username"), vals.Get("email"), password)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		errs.Add("username", "A user with that username already exists.")
	case errors.Is(err, service.ErrPasswordTooShort):
		errs.Add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", form.MinPasswordLen))
	case errors.Is(err, service.ErrPasswordTooLong):
		errs.Add("password1", fmt.Sprintf("This password is too long. It must be at most %d bytes.", form.MaxPasswordBytes))
	case err != nil:
		h.serverError(w, r, err)
		return
	}
	if errs.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageRegister, "Register", data)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) error {
	session, err := h.sessions.CreateSession(r.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)
	slog.Info("user logged in", "user_id", user.ID)
	return nil
}
