package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/"

var (
	// ErrUnsupportedType is returned for files that are not one of the allowed image types.
	ErrUnsupportedType = errors.New("only jpeg, png, gif and webp images are allowed")
	// ErrTooLarge is returned for files over the size cap.
	ErrTooLarge = errors.New("file is too large")
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageStore persists uploaded images and returns their public path.
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
}

// LocalStore writes images into a directory on disk.
type LocalStore struct {
	dir      string
	maxBytes int64
}

var _ ImageStore = (*LocalStore)(nil)

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save sniffs the content type, enforces the size cap and stores the file under a random name.
func (s *LocalStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return "", ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.NewString() + mtype.Extension()
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return PublicPrefix + name, nil
}

// Remove deletes a previously stored image. Paths outside PublicPrefix are ignored.
func (s *LocalStore) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
