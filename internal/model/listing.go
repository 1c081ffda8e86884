package model

import "time"

// Listing is a business directory entry. Slug is assigned once at creation
// and never recomputed.
type Listing struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Website     string    `json:"website,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated by joins.
	CategoryName string `json:"category_name,omitempty"`
	CategorySlug string `json:"category_slug,omitempty"`
}

// Path is the public business page path.
func (l *Listing) Path() string {
	return "/b/" + l.Slug + "/"
}

// Location joins city and state for display.
func (l *Listing) Location() string {
	switch {
	case l.City != "" && l.State != "":
		return l.City + ", " + l.State
	case l.City != "":
		return l.City
	default:
		return l.State
	}
}

// ListingFilter narrows a listing query. Every non-zero field is ANDed;
// a zero filter selects all listings. Results are newest first.
type ListingFilter struct {
	// Keyword matches title OR description, case-insensitive substring.
	Keyword string
	// CategoryID matches exactly.
	CategoryID *int64
	// City and State match case-insensitive substrings.
	City  string
	State string
	// FeaturedOnly restricts to featured listings.
	FeaturedOnly bool

	Limit  int
	Offset int
}

// IsEmpty reports whether no narrowing filter is set. Limit and Offset are
// paging, not filters.
func (f ListingFilter) IsEmpty() bool {
	return f.Keyword == "" && f.CategoryID == nil && f.City == "" && f.State == "" && !f.FeaturedOnly
}

// DashboardStats are the counts shown on the staff dashboard.
type DashboardStats struct {
	Listings   int
	Categories int
	Featured   int
	Messages   int
}
