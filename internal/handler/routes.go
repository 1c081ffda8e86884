package handler

import (
	"net/http"
	"strings"

	"github.com/dialdirectory/web/pkg/auth"
)

// Routes bundles everything the router dispatches to.
type Routes struct {
	Health     *Handler
	Site       *SiteHandler
	Listings   *ListingHandler
	Categories *CategoryHandler
	Templates  *TemplateHandler
	Contact    *ContactHandler
	Auth       *AuthHandler
	Dashboard  *DashboardHandler

	Sessions auth.SessionValidator
	Limiter  *RateLimiter
	// Pages renders the 403 and 404 pages for the router itself.
	Pages Renderer

	// MediaURL is the path prefix uploads are served under, and MediaDir
	// the directory they are read from.
	MediaURL string
	MediaDir string
}

// Router builds the site's handler: every route, the access guards and the
// shared middleware chain.
func (rt *Routes) Router() http.Handler {
	p := pages{view: rt.Pages}
	login := auth.RequireLogin
	staff := auth.RequireStaff(http.HandlerFunc(p.forbidden))
	limit := rt.Limiter.Middleware

	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc, guards ...func(http.Handler) http.Handler) {
		var next http.Handler = h
		for i := len(guards) - 1; i >= 0; i-- {
			next = guards[i](next)
		}
		mux.Handle(pattern, next)
	}

	handle("GET /healthz", rt.Health.Health)

	// Public pages
	handle("GET /{$}", rt.Site.Home)
	handle("GET /about/{$}", rt.Site.About)
	handle("GET /listings/{$}", rt.Site.Listings)
	handle("GET /search/{$}", rt.Site.Search)
	handle("GET /b/{slug}/{$}", rt.Site.Detail)
	handle("GET /category/{slug}/{$}", rt.Site.Category)
	handle("GET /t/{slug}/{$}", rt.Site.TemplatePage)

	handle("GET /contact/{$}", rt.Contact.Form)
	handle("POST /contact/{$}", rt.Contact.Submit, limit)

	handle("GET /login/{$}", rt.Auth.LoginForm)
	handle("POST /login/{$}", rt.Auth.Login, limit)
	handle("/logout/{$}", rt.Auth.Logout)
	handle("GET /register/{$}", rt.Auth.RegisterForm)
	handle("POST /register/{$}", rt.Auth.Register, limit)

	handle("/add-listing/{$}", rt.Listings.Submit, login)

	// Staff dashboard
	handle("GET /dashboard/{$}", rt.Dashboard.Home, staff)
	handle("GET /dashboard/listings/{$}", rt.Listings.DashboardList, staff)
	handle("/dashboard/listings/add/{$}", rt.Listings.DashboardAdd, staff)
	handle("/dashboard/listings/edit/{id}/{$}", rt.Listings.Edit, staff)
	handle("POST /dashboard/listings/delete/{id}/{$}", rt.Listings.Delete, staff)
	handle("POST /dashboard/listings/feature/{id}/{$}", rt.Listings.ToggleFeatured, staff)

	handle("GET /dashboard/categories/{$}", rt.Categories.List, staff)
	handle("/dashboard/categories/add/{$}", rt.Categories.Add, staff)
	handle("/dashboard/categories/{id}/edit/{$}", rt.Categories.Edit, staff)
	handle("POST /dashboard/categories/{id}/delete/{$}", rt.Categories.Delete, staff)

	handle("GET /dashboard/templates/{$}", rt.Templates.List, staff)
	handle("/dashboard/templates/add/{$}", rt.Templates.Add, staff)
	handle("POST /dashboard/templates/{id}/delete/{$}", rt.Templates.Delete, staff)

	handle("GET /dashboard/messages/{$}", rt.Contact.Inbox, staff)
	handle("POST /dashboard/messages/{id}/delete/{$}", rt.Contact.Delete, staff)

	if rt.MediaURL != "" && rt.MediaDir != "" {
		prefix := strings.TrimRight(rt.MediaURL, "/")
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(rt.MediaDir)), p)))
	}

	handle("/", p.notFound)

	var h http.Handler = mux
	h = auth.LoadSession(rt.Sessions)(h)
	h = SecurityHeaders(h)
	h = RequestLogger(h)
	return h
}

// noDirListing answers directory requests with the 404 page.
func noDirListing(next http.Handler, p pages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			p.notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
