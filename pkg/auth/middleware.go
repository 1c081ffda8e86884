package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the logged-in user attached to a request.
type Principal struct {
	UserID   int64
	Username string
	IsStaff  bool
}

// WithPrincipal stores p in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the logged-in user, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// UserIDFromContext returns the logged-in user's id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return 0, false
	}
	return p.UserID, true
}

// IsStaffFromContext reports whether the request belongs to a staff user.
func IsStaffFromContext(ctx context.Context) bool {
	p, ok := PrincipalFromContext(ctx)
	return ok && p.IsStaff
}

// SessionValidator resolves a session token to its principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*Principal, error)
}

// LoadSession attaches the principal for a valid session cookie. Requests
// without one, or with a stale one, continue anonymously.
func LoadSession(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := v.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				slog.Debug("session rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// LoginURL is where anonymous users are sent, with next set to the
// page they asked for.
func LoginURL(r *http.Request) string {
	return "/login/?next=" + url.QueryEscape(r.URL.RequestURI())
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginURL(r), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff redirects anonymous requests to login and hands logged-in
// non-staff requests to forbidden. A nil forbidden writes a plain 403.
func RequireStaff(forbidden http.Handler) func(http.Handler) http.Handler {
	if forbidden == nil {
		forbidden = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, LoginURL(r), http.StatusFound)
				return
			}
			if !p.IsStaff {
				slog.Warn("staff area denied", "user_id", p.UserID, "path", r.URL.Path)
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SafeRedirect returns next when it is a local path and fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if next == "" || next[0] != '/' || len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
