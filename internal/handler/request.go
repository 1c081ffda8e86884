package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dialdirectory/web/internal/form"
	"github.com/dialdirectory/web/internal/model"
)

const (
	maxRequestBody = 4 << 20
	maxFormMemory  = 4 << 20
)

// parseForm reads a urlencoded or multipart body, capped at maxRequestBody.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalID parses a select value. Blank or malformed input is nil.
func optionalID(v string) *int64 {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// searchFilter builds a listing filter from query parameters. A value that
// fails validation is dropped rather than reported.
func searchFilter(q url.Values) (model.ListingFilter, form.Values) {
	vals, errs := form.Validate(q, form.SearchFields)
	for name := range errs {
		vals[name] = ""
	}
	f := model.ListingFilter{
		Keyword:    vals.Get("q"),
		CategoryID: optionalID(vals.Get("category")),
		City:       vals.Get("city"),
		State:      vals.Get("state"),
	}
	if f.CategoryID == nil {
		vals["category"] = ""
	}
	return f, vals
}
