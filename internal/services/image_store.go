package services

import (
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// imageExtensions maps the accepted upload MIME types to file extensions.
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ImageStore writes uploaded product images into a local directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates dir if needed and returns a store writing into it.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (s *ImageStore) Dir() string {
	return s.dir
}

// SaveFunc writes an uploaded file to path. fiber's Ctx.SaveFile has this
// signature.
type SaveFunc func(fh *multipart.FileHeader, path string) error

// Save checks the upload type, picks a fresh name and writes the file with
// save. A partially written file is removed on failure.
func (s *ImageStore) Save(fh *multipart.FileHeader, save SaveFunc) (string, error) {
	ext, ok := imageExtensions[fh.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, fh.Filename)
	}

	name := uuid.New().String() + "." + ext
	path := filepath.Join(s.dir, name)
	if err := save(fh, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.WithError(rmErr).WithField("path", path).Warn("Could not remove partial upload")
		}
		return "", fmt.Errorf("failed to write image file %s: %w", fh.Filename, err)
	}
	return name, nil
}
