// Package form validates submitted form values against declarative
// per-entity field tables.
package form

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field declares the constraints on one form field.
type Field struct {
	Name     string
	Label    string
	Required bool
	MaxLen   int
	Email    bool
	URL      bool
	// Pattern, when set, must match the whole trimmed value.
	Pattern *regexp.Regexp
	// PatternMessage is shown when Pattern does not match.
	PatternMessage string
}

// Errors maps a field name to its validation message. The empty key holds
// errors that do not belong to a single field.
type Errors map[string]string

// Add records msg for field unless the field already has an error.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Get returns the message for field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// Any reports whether any error was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Values is the trimmed, submitted state of a form, kept for re-rendering.
type Values map[string]string

// Get returns the value for name, or "".
func (v Values) Get(name string) string {
	return v[name]
}

// Validate trims every declared field from src, checks the constraints and
// returns the cleaned values together with any errors.
func Validate(src url.Values, fields []Field) (Values, Errors) {
	vals := make(Values, len(fields))
	errs := Errors{}
	for _, f := range fields {
		v := strings.TrimSpace(src.Get(f.Name))
		vals[f.Name] = v
		if msg := check(f, v); msg != "" {
			errs.Add(f.Name, msg)
		}
	}
	return vals, errs
}

func check(f Field, v string) string {
	label := f.Label
	if label == "" {
		label = f.Name
	}
	if v == "" {
		if f.Required {
			return label + " is required."
		}
		return ""
	}
	if f.MaxLen > 0 && utf8.RuneCountInString(v) > f.MaxLen {
		return label + " is too long."
	}
	if f.Email && !isEmail(v) {
		return "Enter a valid email address."
	}
	if f.URL && !isURL(v) {
		return "Enter a valid URL."
	}
	if f.Pattern != nil && !f.Pattern.MatchString(v) {
		if f.PatternMessage != "" {
			return f.PatternMessage
		}
		return label + " is invalid."
	}
	return ""
}

func isEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return false
	}
	at := strings.LastIndex(v, "@")
	return at > 0 && strings.Contains(v[at+1:], ".")
}

func isURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
