package handler

import (
	"errors"
	"net/http"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/view"
)

const dashboardTemplatesPath = "/dashboard/templates/"

// TemplateHandler serves category template uploads.
type TemplateHandler struct {
	pages
	templates service.TemplateService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(v Renderer, templates service.TemplateService) *TemplateHandler {
	return &TemplateHandler{pages: pages{view: v}, templates: templates}
}

// List handles GET /dashboard/templates/.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageDashboardTemplates, "Templates", &view.TemplatesData{Templates: templates})
}

// Add handles GET and POST /dashboard/templates/add/.
func (h *TemplateHandler) Add(w http.ResponseWriter, r *http.Request) {
	const heading = "Upload template"
	data := &view.FormData{
		Action:  dashboardTemplatesPath + "add/",
		Heading: heading,
		Values:  form.Values{},
		Errors:  form.Errors{},
	}
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, view.PageTemplateForm, heading, data)
		return
	}

	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	data.Values, data.Errors = form.Validate(r.PostForm, form.TemplateFields)
	file, filename, err := templateFile(r, "html_file")
	if err != nil {
		var ue *uploadError
		if !errors.As(err, &ue) {
			h.serverError(w, r, err)
			return
		}
		data.Errors.Add("html_file", ue.msg)
	}
	if data.Errors.Any() {
		if file != nil {
			file.Close()
		}
		h.render(w, r, http.StatusUnprocessableEntity, view.PageTemplateForm, heading, data)
		return
	}
	defer file.Close()

	t := &model.CategoryTemplate{
		Name: data.Values.Get("name"),
		Slug: data.Values.Get("slug"),
	}
	if err := h.templates.Create(r.Context(), t, filename, file); err != nil {
		if field, msg, ok := slugFieldError(err); ok {
			data.Errors.Add(field, msg)
			h.render(w, r, http.StatusUnprocessableEntity, view.PageTemplateForm, heading, data)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardTemplatesPath, http.StatusFound)
}

// Delete handles POST /dashboard/templates/{id}/delete/.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	err := h.templates.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardTemplatesPath, http.StatusFound)
}
