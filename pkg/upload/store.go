package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrTooLarge        = fmt.Errorf("file exceeds size limit")
	ErrUnsupportedType = fmt.Errorf("unsupported file type")
)

// allowed MIME types for treatment attachments
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Store persists uploaded files on local disk under random names and hands
// back a relative path to record against the owning row.
type Store struct {
	dir     string
	maxSize int64
}

func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Save validates the upload against the MIME allow-list and size ceiling and
// writes it to disk. The declared Content-Type header is checked; the size
// comes from the multipart header, with the copy capped as a backstop.
func (s *Store) Save(file *multipart.FileHeader) (path string, err error) {
	if file.Size > s.maxSize {
		return "", ErrTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrUnsupportedType
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dstPath := filepath.Join(s.dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dstPath)
		return "", ErrTooLarge
	}

	return name, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir returns the storage root, for mounting as a static route.
func (s *Store) Dir() string {
	return s.dir
}
