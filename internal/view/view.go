// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/dialdirectory/web/pkg/auth"
)

//go:embed templates
var templateFS embed.FS

// Page names, one per templates/<name>.html file.
const (
	PageHome                = "home"
	PageListings            = "listings"
	PageSearch              = "search"
	PageAbout               = "about"
	PageListingDetail       = "listing_detail"
	PageCategory            = "category"
	PageTemplate            = "template_page"
	PageContact             = "contact"
	PageLogin               = "login"
	PageRegister            = "register"
	PageListingForm         = "listing_form"
	PageDashboard           = "dashboard"
	PageDashboardListings   = "dashboard_listings"
	PageDashboardCategories = "dashboard_categories"
	PageCategoryForm        = "category_form"
	PageDashboardTemplates  = "dashboard_templates"
	PageTemplateForm        = "template_form"
	PageDashboardMessages   = "dashboard_messages"
	PageError               = "error"
)

var pages = []string{
	PageHome, PageListings, PageSearch, PageAbout, PageListingDetail, PageCategory,
	PageTemplate, PageContact, PageLogin, PageRegister, PageListingForm, PageDashboard,
	PageDashboardListings, PageDashboardCategories, PageCategoryForm,
	PageDashboardTemplates, PageTemplateForm, PageDashboardMessages, PageError,
}

// Page is what every template receives. Content holds the page-specific
// data from this package.
type Page struct {
	Title   string
	User    *auth.Principal
	Path    string
	Content any
}

var funcs = template.FuncMap{
	"idstr": func(id int64) string { return strconv.FormatInt(id, 10) },
	"date":  func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"dict":  dict,
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout and partials.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into w.
func (r *Renderer) Render(w io.Writer, name string, p *Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", p)
}
