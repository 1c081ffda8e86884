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

const inboxLimit = 200

// ContactHandler handles contact form submission and the staff inbox.
type ContactHandler struct {
	pages
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(v Renderer, contactService service.ContactService) *ContactHandler {
	return &ContactHandler{pages: pages{view: v}, contactService: contactService}
}

// Form handles GET /contact/.
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageContact, "Contact", &view.FormData{
		Action: "/contact/",
		Values: form.Values{},
		Errors: form.Errors{},
		Sent:   r.URL.Query().Get("sent") == "1",
	})
}

// Submit handles POST /contact/.
// name, email and message are required; phone is optional.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.badRequest(w, r)
		return
	}
	vals, errs := form.Validate(r.PostForm, form.ContactFields)
	if errs.Any() {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageContact, "Contact", &view.FormData{
			Action: "/contact/",
			Values: vals,
			Errors: errs,
		})
		return
	}

	msg := &model.ContactMessage{
		Name:    vals.Get("name"),
		Email:   vals.Get("email"),
		Phone:   vals.Get("phone"),
		Message: vals.Get("message"),
	}
	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/contact/?sent=1", http.StatusFound)
}

// Inbox handles GET /dashboard/messages/.
func (h *ContactHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.List(r.Context(), model.ContactListOptions{Limit: inboxLimit})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageDashboardMessages, "Messages", &view.MessagesData{Messages: messages})
}

// Delete handles POST /dashboard/messages/{id}/delete/.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	err := h.contactService.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard/messages/", http.StatusFound)
}
