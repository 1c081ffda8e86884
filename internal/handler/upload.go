package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/dialdirectory/web/internal/service"
	"github.com/dialdirectory/web/internal/storage"
)

const maxImageSize = 2 << 20 // 2 MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// uploadError is a user-facing problem with a submitted file.
type uploadError struct {
	msg string
}

func (e *uploadError) Error() string { return e.msg }

// formFile returns the named file part, or nil when none was submitted.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if header.Size == 0 && header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}
	return file, header, nil
}

// saveImage stores the image uploaded in field under kind and returns its
// public URL. No upload yields "".
func saveImage(r *http.Request, store storage.Storage, field, kind string) (string, error) {
	file, header, err := formFile(r, field)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	if file == nil {
		return "", nil
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return "", &uploadError{msg: "Image files must be 2 MB or smaller."}
	}
	ct := header.Header.Get("Content-Type")
	ext, ok := allowedImageTypes[ct]
	if !ok {
		return "", &uploadError{msg: "Upload a JPEG, PNG, WebP or GIF image."}
	}

	url, err := store.Save(r.Context(), storage.NewKey(kind, ext), file, ct)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", field, err)
	}
	return url, nil
}

// templateFile validates an uploaded HTML document. The caller closes the file.
func templateFile(r *http.Request, field string) (multipart.File, string, error) {
	file, header, err := formFile(r, field)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}
	if file == nil {
		return nil, "", &uploadError{msg: "Choose an HTML file to upload."}
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	ct := header.Header.Get("Content-Type")
	switch {
	case ext != ".html" && ext != ".htm":
		file.Close()
		return nil, "", &uploadError{msg: "Template files must end in .html or .htm."}
	case ct != "" && !strings.HasPrefix(ct, "text/html"):
		file.Close()
		return nil, "", &uploadError{msg: "Template files must be HTML documents."}
	case header.Size > service.MaxTemplateSize:
		file.Close()
		return nil, "", &uploadError{msg: "Template files must be 1 MB or smaller."}
	}
	return file, header.Filename, nil
}

// discardUpload removes a file saved earlier in a request that then failed.
func discardUpload(ctx context.Context, store storage.Storage, url string) {
	if url == "" {
		return
	}
	key := store.KeyFromURL(url)
	if key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		slog.Warn("orphaned upload", "key", key, "error", err)
	}
}
