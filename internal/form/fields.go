package form

import "regexp"

var (
	reSlug     = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)
	reUsername = regexp.MustCompile(`^[\w.@+-]+$`)
)

// ListingFields is the constraint table for listing create/edit forms.
var ListingFields = []Field{
	{Name: "title", Label: "Title", Required: true, MaxLen: 200},
	{Name: "description", Label: "Description", Required: true},
	{Name: "phone", Label: "Phone", MaxLen: 50},
	{Name: "email", Label: "Email", MaxLen: 254, Email: true},
	{Name: "website", Label: "Website", MaxLen: 200, URL: true},
	{Name: "address", Label: "Address", MaxLen: 255},
	{Name: "city", Label: "City", MaxLen: 120},
	{Name: "state", Label: "State", MaxLen: 120},
	{Name: "category", Label: "Category"},
	{Name: "featured", Label: "Featured"},
}

// CategoryFields is the constraint table for the category form. A blank
// slug is derived from the name.
var CategoryFields = []Field{
	{Name: "name", Label: "Name", Required: true, MaxLen: 200},
	{Name: "slug", Label: "Slug", MaxLen: 50, Pattern: reSlug,
		PatternMessage: "Enter a valid slug of lowercase letters, numbers, underscores or hyphens."},
	{Name: "template", Label: "Template"},
}

// TemplateFields is the constraint table for the template upload form.
var TemplateFields = []Field{
	{Name: "name", Label: "Name", Required: true, MaxLen: 200},
	{Name: "slug", Label: "Slug", MaxLen: 50, Pattern: reSlug,
		PatternMessage: "Enter a valid slug of lowercase letters, numbers, underscores or hyphens."},
}

// ContactFields is the constraint table for the public contact form.
var ContactFields = []Field{
	{Name: "name", Label: "Name", Required: true, MaxLen: 120},
	{Name: "email", Label: "Email", Required: true, MaxLen: 254, Email: true},
	{Name: "phone", Label: "Phone", MaxLen: 50},
	{Name: "message", Label: "Message", Required: true, MaxLen: 5000},
}

// RegisterFields is the constraint table for account registration.
var RegisterFields = []Field{
	{Name: "username", Label: "Username", Required: true, MaxLen: 150, Pattern: reUsername,
		PatternMessage: "Letters, digits and @/./+/-/_ only."},
	{Name: "email", Label: "Email", Required: true, MaxLen: 254, Email: true},
	{Name: "password1", Label: "Password", Required: true, MaxLen: 128},
	{Name: "password2", Label: "Password confirmation", Required: true, MaxLen: 128},
}

// LoginFields is the constraint table for the login form.
var LoginFields = []Field{
	{Name: "username", Label: "Username", Required: true, MaxLen: 150},
	{Name: "password", Label: "Password", Required: true, MaxLen: 128},
}

// SearchFields declares the optional search filters.
var SearchFields = []Field{
	{Name: "q", Label: "Keyword", MaxLen: 200},
	{Name: "category", Label: "Category"},
	{Name: "city", Label: "City", MaxLen: 120},
	{Name: "state", Label: "State", MaxLen: 120},
}

// MinPasswordLen is the shortest password registration accepts.
const MinPasswordLen = 8

// MaxPasswordBytes is the longest password bcrypt can hash, in bytes.
const MaxPasswordBytes = 72
