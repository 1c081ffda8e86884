package view

import (
	"html/template"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
)

// HomeData backs the home page.
type HomeData struct {
	Categories []*model.Category
	Featured   []*model.Listing
}

// ListingsData backs the browse, search and dashboard listing pages.
// Query holds the submitted filter values for re-display.
type ListingsData struct {
	Query      form.Values
	Categories []*model.Category
	Listings   []*model.Listing
	Searched   bool
}

// ListingDetailData backs the business page.
type ListingDetailData struct {
	Listing *model.Listing
}

// CategoryData backs a category that lists its businesses directly.
type CategoryData struct {
	Category *model.Category
	Listings []*model.Listing
}

// TemplatePageData backs /t/<slug>/. Body is trusted staff-uploaded HTML.
type TemplatePageData struct {
	Template *model.CategoryTemplate
	Body     template.HTML
}

// FormData backs every form page.
type FormData struct {
	Action     string
	Heading    string
	Values     form.Values
	Errors     form.Errors
	NonField   string
	Categories []*model.Category
	Templates  []*model.CategoryTemplate
	// ImageURL is the current upload shown on edit forms.
	ImageURL string
	Next     string
	Sent     bool
}

// DashboardData backs the dashboard home.
type DashboardData struct {
	Stats *model.DashboardStats
}

// CategoriesData backs the category admin list.
type CategoriesData struct {
	Categories []*model.Category
}

// TemplatesData backs the template admin list.
type TemplatesData struct {
	Templates []*model.CategoryTemplate
}

// MessagesData backs the contact inbox.
type MessagesData struct {
	Messages []*model.ContactMessage
}

// ErrorData backs 403/404/500 pages.
type ErrorData struct {
	Status  int
	Message string
}
