package model

import "time"

// Category groups listings. A category bound to a CategoryTemplate is
// rendered by redirecting to the template page instead of listing directly.
type Category struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	IconURL    string    `json:"icon_url,omitempty"`
	TemplateID *int64    `json:"template_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated by joins; not stored on the categories row.
	TemplateSlug string `json:"template_slug,omitempty"`
	ListingCount int    `json:"listing_count"`
}

// HasTemplate reports whether the category renders through an uploaded template.
func (c *Category) HasTemplate() bool {
	return c.TemplateID != nil && c.TemplateSlug != ""
}

// CategoryTemplate is an administrator-uploaded HTML document that replaces
// the default category page.
type CategoryTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	FileKey   string    `json:"file_key"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplatePath is the public path the template is served from.
func (t *CategoryTemplate) TemplatePath() string {
	return "/t/" + t.Slug + "/"
}

// CategoryResolution is the outcome of resolving a category page: either a
// redirect to the category's template or the listings to render directly.
type CategoryResolution struct {
	Category     *Category
	RedirectPath string
	Listings     []*Listing
}

// Redirects reports whether the category page should redirect.
func (r *CategoryResolution) Redirects() bool {
	return r.RedirectPath != ""
}
