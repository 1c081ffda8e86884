// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reInvalid   = regexp.MustCompile(`[^\w\s-]`)
	reSeparator = regexp.MustCompile(`[-\s]+`)
	reValid     = regexp.MustCompile(`^[a-z0-9_]+(?:-[a-z0-9_]+)*$`)
)

// MaxLen is the longest slug Make returns. Next may append a "-N" suffix.
const MaxLen = 200

// Make lowercases name, folds it to ASCII, drops punctuation and joins words
// with single hyphens. "Joe's Pizza" becomes "joes-pizza". The result may be
// empty when name has no ASCII-representable word characters.
func Make(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, name)
	if err != nil {
		return ""
	}
	s := reInvalid.ReplaceAllString(strings.ToLower(ascii), "")
	s = reSeparator.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-_")
	// NFKD can expand a name ("㎒" is "mhz"), so the result is capped to fit
	// the slug columns. s is ASCII here, so bytes are characters.
	if len(s) > MaxLen {
		s = strings.TrimRight(s[:MaxLen], "-_")
	}
	return s
}

// Valid reports whether s is already in the canonical slug form.
func Valid(s string) bool {
	return reValid.MatchString(s)
}

// Next returns base if it is not taken, otherwise the first of base-1,
// base-2, ... that is free.
func Next(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// Set builds the lookup Next expects from a list of existing slugs.
func Set(existing []string) map[string]bool {
	m := make(map[string]bool, len(existing))
	for _, s := range existing {
		m[s] = true
	}
	return m
}
