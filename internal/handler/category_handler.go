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
)

const dashboardCategoriesPath = "/dashboard/categories/"

// CategoryHandler serves the staff category admin.
type CategoryHandler struct {
	pages
	categories service.CategoryService
	templates  service.TemplateService
	storage    storage.Storage
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(v Renderer, categories service.CategoryService, templates service.TemplateService, store storage.Storage) *CategoryHandler {
	return &CategoryHandler{pages: pages{view: v}, categories: categories, templates: templates, storage: store}
}

// List handles GET /dashboard/categories/.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageDashboardCategories, "Categories", &view.CategoriesData{Categories: categories})
}

// Add handles GET and POST /dashboard/categories/add/.
func (h *CategoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, &model.Category{}, "Add category", form.Values{})
}

// Edit handles GET and POST /dashboard/categories/{id}/edit/.
func (h *CategoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.save(w, r, c, "Edit "+c.Name, form.Values{
		"name":     c.Name,
		"slug":     c.Slug,
		"template": idString(c.TemplateID),
	})
}

func (h *CategoryHandler) save(w http.ResponseWriter, r *http.Request, c *model.Category, heading string, initial form.Values) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := &view.FormData{
		Action:    r.URL.Path,
		Heading:   heading,
		Values:    initial,
		Errors:    form.Errors{},
		Templates: templates,
		ImageURL:  c.IconURL,
	}
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, view.PageCategoryForm, heading, data)
		return
	}

	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	data.Values, data.Errors = form.Validate(r.PostForm, form.CategoryFields)
	c.Name = data.Values.Get("name")
	c.Slug = data.Values.Get("slug")
	c.TemplateID = nil
	if v := data.Values.Get("template"); v != "" {
		id := optionalID(v)
		if id == nil || !hasTemplate(templates, *id) {
			data.Errors.Add("template", "Select a valid choice.")
		}
		c.TemplateID = id
	}
	if data.Errors.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageCategoryForm, heading, data)
		return
	}

	iconURL, err := saveImage(r, h.storage, "icon", storage.KindIcon)
	if err != nil {
		var ue *uploadError
		if !errors.As(err, &ue) {
			h.serverError(w, r, err)
			return
		}
		data.Errors.Add("icon", ue.msg)
		h.render(w, r, http.StatusUnprocessableEntity, view.PageCategoryForm, heading, data)
		return
	}
	if iconURL != "" {
		c.IconURL = iconURL
	}

	if c.ID == 0 {
		err = h.categories.Create(r.Context(), c)
	} else {
		err = h.categories.Update(r.Context(), c)
	}
	if err != nil {
		discardUpload(r.Context(), h.storage, iconURL)
		if field, msg, ok := slugFieldError(err); ok {
			data.Errors.Add(field, msg)
			h.render(w, r, http.StatusUnprocessableEntity, view.PageCategoryForm, heading, data)
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardCategoriesPath, http.StatusFound)
}

// Delete handles POST /dashboard/categories/{id}/delete/. Listings in the
// category are kept and become uncategorized.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	err := h.categories.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardCategoriesPath, http.StatusFound)
}

func hasTemplate(templates []*model.CategoryTemplate, id int64) bool {
	for _, t := range templates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// slugFieldError maps service conflicts onto the form field they concern.
func slugFieldError(err error) (field, msg string, ok bool) {
	switch {
	case errors.Is(err, service.ErrSlugTaken):
		return "slug", "This slug is already in use.", true
	case errors.Is(err, service.ErrSlugRequired):
		return "slug", "Enter a slug. One could not be made from the name.", true
	case errors.Is(err, service.ErrSlugInvalid):
		return "slug", "Enter a valid slug of lowercase letters, numbers, underscores or hyphens.", true
	case errors.Is(err, service.ErrTemplateInUse):
		return "template", "This template is already assigned to another category.", true
	default:
		return "", "", false
	}
}
