package storage

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are empty or escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage abstracts where uploaded listing images, category icons and
// category template documents live.
type Storage interface {
	// Save stores data under key and returns its public URL.
	// key is a relative path such as "listings/<uuid>.jpg".
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Open returns the stored file. A missing key yields an error matching
	// fs.ErrNotExist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// KeyFromURL reverses Save's URL back to a key. It returns "" for
	// URLs this storage did not produce.
	KeyFromURL(url string) string
}

// Upload kinds, used as the first key segment.
const (
	KindListing  = "listings"
	KindIcon     = "category_icons"
	KindTemplate = "category_templates"
)

// NewKey returns a fresh "<kind>/<uuid><ext>" key.
func NewKey(kind, ext string) string {
	return kind + "/" + uuid.NewString() + ext
}
