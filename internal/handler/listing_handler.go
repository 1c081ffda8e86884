package handler

import (
	"errors"
	"net/http"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/storage"
	"github.com/dialdirectory/web/internal/view"
	"github.com/dialdirectory/web/pkg/auth"
)

const dashboardListingsPath = "/dashboard/listings/"

// ListingHandler serves listing submission and the staff listing admin.
type ListingHandler struct {
	pages
	listings   service.ListingService
	categories service.CategoryService
	storage    storage.Storage
}

// NewListingHandler creates a ListingHandler.
func NewListingHandler(v Renderer, listings service.ListingService, categories service.CategoryService, store storage.Storage) *ListingHandler {
	return &ListingHandler{pages: pages{view: v}, listings: listings, categories: categories, storage: store}
}

// Submit handles GET and POST /add-listing/. The featured flag is only
// honored for staff.
func (h *ListingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "/add-listing/", "Add your business")
}

// DashboardAdd handles GET and POST /dashboard/listings/add/.
func (h *ListingHandler) DashboardAdd(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, dashboardListingsPath+"add/", "Add listing")
}

func (h *ListingHandler) create(w http.ResponseWriter, r *http.Request, action, heading string) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := &view.FormData{
		Action:     action,
		Heading:    heading,
		Values:     form.Values{},
		Errors:     form.Errors{},
		Categories: categories,
	}
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, view.PageListingForm, heading, data)
		return
	}

	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	data.Values, data.Errors = form.Validate(r.PostForm, form.ListingFields)
	l := &model.Listing{}
	applyListingValues(l, data.Values, categories, data.Errors, auth.IsStaffFromContext(r.Context()))
	if data.Errors.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageListingForm, heading, data)
		return
	}

	l.ImageURL, err = saveImage(r, h.storage, "image", storage.KindListing)
	if h.uploadFailed(w, r, err, data, heading) {
		return
	}
	if err := h.listings.Create(r.Context(), l); err != nil {
		discardUpload(r.Context(), h.storage, l.ImageURL)
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, l.Path(), http.StatusFound)
}

// DashboardList handles GET /dashboard/listings/.
func (h *ListingHandler) DashboardList(w http.ResponseWriter, r *http.Request) {
	data, err := listingsData(r, h.listings, h.categories)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageDashboardListings, "Listings", data)
}

// Edit handles GET and POST /dashboard/listings/edit/{id}/. The slug is
// never changed.
func (h *ListingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	l, err := h.listings.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	heading := "Edit " + l.Title
	data := &view.FormData{
		Action:     r.URL.Path,
		Heading:    heading,
		Values:     listingValues(l),
		Errors:     form.Errors{},
		Categories: categories,
		ImageURL:   l.ImageURL,
	}
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, view.PageListingForm, heading, data)
		return
	}

	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	data.Values, data.Errors = form.Validate(r.PostForm, form.ListingFields)
	applyListingValues(l, data.Values, categories, data.Errors, true)
	if data.Errors.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageListingForm, heading, data)
		return
	}

	imageURL, err := saveImage(r, h.storage, "image", storage.KindListing)
	if h.uploadFailed(w, r, err, data, heading) {
		return
	}
	if imageURL != "" {
		l.ImageURL = imageURL
	}
	if err := h.listings.Update(r.Context(), l); err != nil {
		discardUpload(r.Context(), h.storage, imageURL)
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardListingsPath, http.StatusFound)
}

// Delete handles POST /dashboard/listings/delete/{id}/.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	err := h.listings.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardListingsPath, http.StatusFound)
}

// ToggleFeatured handles POST /dashboard/listings/feature/{id}/.
func (h *ListingHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	_, err := h.listings.ToggleFeatured(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardListingsPath, http.StatusFound)
}

// uploadFailed renders the form again for a rejected image and reports
// whether the response was written.
func (h *ListingHandler) uploadFailed(w http.ResponseWriter, r *http.Request, err error, data *view.FormData, heading string) bool {
	if err == nil {
		return false
	}
	var ue *uploadError
	if errors.As(err, &ue) {
		data.Errors.Add("image", ue.msg)
		h.render(w, r, http.StatusUnprocessableEntity, view.PageListingForm, heading, data)
		return true
	}
	h.serverError(w, r, err)
	return true
}

// applyListingValues copies validated values onto l. An unknown category is
// recorded in errs.
func applyListingValues(l *model.Listing, vals form.Values, categories []*model.Category, errs form.Errors, allowFeatured bool) {
	l.Title = vals.Get("title")
	l.Description = vals.Get("description")
	l.Phone = vals.Get("phone")
	l.Email = vals.Get("email")
	l.Website = vals.Get("website")
	l.Address = vals.Get("address")
	l.City = vals.Get("city")
	l.State = vals.Get("state")
	if allowFeatured {
		l.Featured = vals.Get("featured") != ""
	}

	l.CategoryID = nil
	if v := vals.Get("category"); v != "" {
		id := optionalID(v)
		if id == nil || !hasCategory(categories, *id) {
			errs.Add("category", "Select a valid choice.")
			return
		}
		l.CategoryID = id
	}
}

func hasCategory(categories []*model.Category, id int64) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func listingValues(l *model.Listing) form.Values {
	vals := form.Values{
		"title":       l.Title,
		"description": l.Description,
		"phone":       l.Phone,
		"email":       l.Email,
		"website":     l.Website,
		"address":     l.Address,
		"city":        l.City,
		"state":       l.State,
		"category":    idString(l.CategoryID),
	}
	if l.Featured {
		vals["featured"] = "on"
	}
	return vals
}
