// Package uploader saves multipart uploads into category directories after
// checking the declared content type.
package uploader

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/kethai/internal/models"
)

// MimePredicate reports whether a declared content type is acceptable.
type MimePredicate func(contentType string) bool

// Uploader writes uploads into one directory, keeping the original filename.
// Identical filenames silently overwrite; callers wanting uniqueness must
// rename before upload.
type Uploader struct {
	dir   string
	allow MimePredicate
}

// New constructs an Uploader for dir, creating it if needed.
func New(dir string, allow MimePredicate) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Uploader{dir: dir, allow: allow}, nil
}

// NewImageUploader accepts any image/* content type.
func NewImageUploader(dir string) (*Uploader, error) {
	return New(dir, func(contentType string) bool {
		return strings.HasPrefix(contentType, "image/")
	})
}

// NewAudioUploader accepts the audio formats the transcriber understands.
func NewAudioUploader(dir string) (*Uploader, error) {
	return New(dir, func(contentType string) bool {
		return contentType == "audio/wav" || contentType == "audio/mpeg"
	})
}

// Save writes the upload's bytes verbatim and returns the stored path.
// Returns ErrInvalidFileType when the declared content type fails the
// predicate.
func (u *Uploader) Save(file *multipart.FileHeader) (string, error) {
	if !u.allow(file.Header.Get("Content-Type")) {
		return "", models.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(u.dir, filepath.Base(file.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path, nil
}

// SaveAll writes every upload in order and returns the stored paths. The
// first failure aborts the batch; earlier files stay on disk.
func (u *Uploader) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		path, err := u.Save(file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
