package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/dialdirectory/web/internal/repository"
	"github.com/dialdirectory/web/internal/view"
	"github.com/dialdirectory/web/pkg/auth"
)

// Handler serves the operational endpoints.
type Handler struct {
	db       repository.DB
	mediaDir string
}

func New(db repository.DB, mediaDir string) *Handler {
	return &Handler{db: db, mediaDir: mediaDir}
}

// Renderer writes a named page.
type Renderer interface {
	Render(w io.Writer, page string, p *view.Page) error
}

// pages is embedded by every HTML handler.
type pages struct {
	view Renderer
}

// render buffers the page so a template error can still become a 500.
func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, content any) {
	page := &view.Page{Title: title, Path: r.URL.Path, Content: content}
	if u, ok := auth.PrincipalFromContext(r.Context()); ok {
		page.User = u
	}

	var buf bytes.Buffer
	if err := p.view.Render(&buf, name, page); err != nil {
		slog.Error("render failed", "page", name, "error", err, "request_id", RequestIDFromContext(r.Context()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p pages) errorPage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	p.render(w, r, status, view.PageError, http.StatusText(status), &view.ErrorData{Status: status, Message: msg})
}

func (p pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.errorPage(w, r, http.StatusNotFound, "The page you requested does not exist.")
}

func (p pages) badRequest(w http.ResponseWriter, r *http.Request) {
	p.errorPage(w, r, http.StatusBadRequest, "The request could not be read.")
}

func (p pages) forbidden(w http.ResponseWriter, r *http.Request) {
	p.errorPage(w, r, http.StatusForbidden, "You do not have access to this page.")
}

func (p pages) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", RequestIDFromContext(r.Context()),
	)
	p.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
