package repository

import (
	"strconv"
	"strings"

	"github.com/dialdirectory/web/internal/model"
)

const listingSelect = `SELECT l.id, l.title, l.slug, l.description, l.image_url, l.phone, l.email,
	l.website, l.address, l.city, l.state, l.category_id, l.featured, l.created_at, l.updated_at,
	COALESCE(c.name, ''), COALESCE(c.slug, '')
	FROM listings l LEFT JOIN categories c ON c.id = l.category_id`

const listingOrder = ` ORDER BY l.created_at DESC, l.id DESC`

// likeEscaper escapes ILIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// buildListingWhere translates a filter into a WHERE clause and its
// positional arguments. Each present filter is ANDed; an empty filter
// yields an empty clause and selects every listing.
func buildListingWhere(f model.ListingFilter) (string, []any) {
	var conditions []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := next(containsPattern(kw))
		conditions = append(conditions,
			"(l.title ILIKE "+p+` ESCAPE '\' OR l.description ILIKE `+p+` ESCAPE '\')`)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "l.category_id = "+next(*f.CategoryID))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		conditions = append(conditions, "l.city ILIKE "+next(containsPattern(city))+` ESCAPE '\'`)
	}
	if state := strings.TrimSpace(f.State); state != "" {
		conditions = append(conditions, "l.state ILIKE "+next(containsPattern(state))+` ESCAPE '\'`)
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "l.featured")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// buildListingQuery returns the full SELECT for f, newest first, with
// LIMIT/OFFSET applied when set.
func buildListingQuery(f model.ListingFilter) (string, []any) {
	where, args := buildListingWhere(f)
	query := listingSelect + where + listingOrder
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	return query, args
}
