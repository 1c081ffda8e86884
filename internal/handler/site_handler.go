package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/view"
)

// SiteHandler serves the public directory pages.
type SiteHandler struct {
	pages
	listings   service.ListingService
	categories service.CategoryService
	templates  service.TemplateService
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(v Renderer, listings service.ListingService, categories service.CategoryService, templates service.TemplateService) *SiteHandler {
	return &SiteHandler{pages: pages{view: v}, listings: listings, categories: categories, templates: templates}
}

// Home handles GET /.
func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	featured, err := h.listings.Featured(r.Context(), service.HomeFeaturedLimit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageHome, "Home", &view.HomeData{
		Categories: categories,
		Featured:   featured,
	})
}

// About handles GET /about/.
func (h *SiteHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageAbout, "About", nil)
}

// Listings handles GET /listings/.
func (h *SiteHandler) Listings(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, view.PageListings, "Listings")
}

// Search handles GET /search/.
func (h *SiteHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, view.PageSearch, "Search")
}

func (h *SiteHandler) search(w http.ResponseWriter, r *http.Request, page, title string) {
	data, err := listingsData(r, h.listings, h.categories)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, page, title, data)
}

// Detail handles GET /b/{slug}/.
func (h *SiteHandler) Detail(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageListingDetail, l.Title, &view.ListingDetailData{Listing: l})
}

// Category handles GET /category/{slug}/. A category with a template
// redirects to the template page.
func (h *SiteHandler) Category(w http.ResponseWriter, r *http.Request) {
	res, err := h.categories.Resolve(r.Context(), r.PathValue("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if res.Redirects() {
		http.Redirect(w, r, res.RedirectPath, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, view.PageCategory, res.Category.Name, &view.CategoryData{
		Category: res.Category,
		Listings: res.Listings,
	})
}

// TemplatePage handles GET /t/{slug}/.
func (h *SiteHandler) TemplatePage(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	body, err := h.templates.Content(r.Context(), t)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	// Uploaded by staff and rendered as-is.
	h.render(w, r, http.StatusOK, view.PageTemplate, t.Name, &view.TemplatePageData{
		Template: t,
		Body:     template.HTML(body),
	})
}

// listingsData runs the search described by the query string.
func listingsData(r *http.Request, listings service.ListingService, categories service.CategoryService) (*view.ListingsData, error) {
	f, vals := searchFilter(r.URL.Query())
	cats, err := categories.List(r.Context())
	if err != nil {
		return nil, err
	}
	found, err := listings.Search(r.Context(), f)
	if err != nil {
		return nil, err
	}
	return &view.ListingsData{
		Query:      vals,
		Categories: cats,
		Listings:   found,
		Searched:   !f.IsEmpty(),
	}, nil
}
