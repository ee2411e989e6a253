// Package upload validates an image picked for a new work and holds the
// in-progress upload form.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"folio/internal/api"
)

// DefaultMaxBytes is the largest image the API accepts (4 MiB).
const DefaultMaxBytes int64 = 4 << 20

// DefaultCategoryID is used when no category has been chosen.
const DefaultCategoryID = 1

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrIncomplete      = errors.New("image and title are required")
)

// SizeError reports an image over the limit in force when it was picked.
type SizeError struct {
	Name string
	Size int64
	Max  int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, limit %d", e.Name, e.Size, e.Max)
}

func (e *SizeError) Unwrap() error { return ErrTooLarge }

// FormatLimit renders a byte limit for people: "4 MB", "1.5 MB", "512 KB".
func FormatLimit(n int64) string {
	const kb, mb = 1 << 10, 1 << 20
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%d MB", n/mb)
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%d KB", n/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// accepted lists the content types the API stores.
var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Message returns the text shown to the user for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return "Invalid format. JPG or PNG only."
	case errors.Is(err, ErrTooLarge):
		limit := DefaultMaxBytes
		var se *SizeError
		if errors.As(err, &se) && se.Max > 0 {
			limit = se.Max
		}
		return "The image must not exceed " + FormatLimit(limit) + "."
	case errors.Is(err, ErrIncomplete):
		return "Please fill in all fields."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// Image is a validated picture ready to be previewed and sent.
type Image struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Reader returns a fresh reader over the image bytes.
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// Inspect opens path and checks type before size, in that order, so a large
// non-image reports the format problem. maxBytes <= 0 means DefaultMaxBytes.
func Inspect(path string, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil, ErrIncomplete
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedType)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	ct := http.DetectContentType(head[:n])
	if !accepted[ct] {
		return nil, fmt.Errorf("%s is %s: %w", filepath.Base(path), ct, ErrUnsupportedType)
	}
	if info.Size() > maxBytes {
		return nil, &SizeError{Name: filepath.Base(path), Size: info.Size(), Max: maxBytes}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding image: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("reading image: %w", &SizeError{Name: filepath.Base(path), Size: int64(len(data)), Max: maxBytes})
	}
	return &Image{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Draft is the upload form: picked image, title and category.
type Draft struct {
	Image      *Image
	Title      string
	CategoryID int
}

// NewDraft returns an empty draft on the default category.
func NewDraft() Draft {
	return Draft{CategoryID: DefaultCategoryID}
}

// Validate reports ErrIncomplete when the image or title is missing.
func (d Draft) Validate() error {
	if d.Image == nil || strings.TrimSpace(d.Title) == "" {
		return ErrIncomplete
	}
	return nil
}

// NewWork converts a validated draft into the API request.
func (d Draft) NewWork() (api.NewWork, error) {
	if err := d.Validate(); err != nil {
		return api.NewWork{}, err
	}
	cat := d.CategoryID
	if cat == 0 {
		cat = DefaultCategoryID
	}
	return api.NewWork{
		Title:       strings.TrimSpace(d.Title),
		CategoryID:  cat,
		Filename:    d.Image.Name,
		ContentType: d.Image.ContentType,
		Image:       d.Image.Reader(),
	}, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
