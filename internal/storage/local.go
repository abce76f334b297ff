package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// allowedImageExts are the accepted upload extensions, lower-cased.
var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// allowedContentTypes are the accepted declared MIME types.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidationError reports an upload rejected before anything touched disk.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// LocalStore writes uploaded images to a local directory and serves them
// back under a fixed public path.
type LocalStore struct {
	dir         string
	publicPath  string
	maxFileSize int64
}

// NewLocalStore constructs a local image store rooted at dir. publicPath is
// the URL prefix the files are served under, e.g. "/uploads".
func NewLocalStore(dir, publicPath string, maxFileSize int64) *LocalStore {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &LocalStore{
		dir:         filepath.Clean(dir),
		publicPath:  "/" + strings.Trim(publicPath, "/"),
		maxFileSize: maxFileSize,
	}
}

// Dir returns the on-disk upload directory.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix files are served under.
func (s *LocalStore) PublicPath() string { return s.publicPath }

// Validate checks one uploaded file against the allowed image set and size
// cap without reading its body.
func (s *LocalStore) Validate(header *multipart.FileHeader) error {
	if header == nil {
		return &ValidationError{Reason: "no image file provided"}
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return &ValidationError{Reason: fmt.Sprintf("file type %s is not allowed, only images are accepted", ext)}
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !allowedContentTypes[contentType] {
		return &ValidationError{Reason: fmt.Sprintf("content type %s is not allowed, only images are accepted", contentType)}
	}
	if header.Size > s.maxFileSize {
		return &ValidationError{Reason: fmt.Sprintf("file too large, maximum size is %d bytes", s.maxFileSize)}
	}
	return nil
}

// generateFilename builds a collision-resistant stored name preserving the
// original extension.
func (s *LocalStore) generateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), fragment, ext)
}

// Save writes a validated upload to disk under a generated name and returns
// the public URL path recorded in the database.
func (s *LocalStore) Save(header *multipart.FileHeader) (string, error) {
	if errMkdir := os.MkdirAll(s.dir, 0755); errMkdir != nil {
		return "", fmt.Errorf("storage: create upload dir: %w", errMkdir)
	}

	src, errOpen := header.Open()
	if errOpen != nil {
		return "", fmt.Errorf("storage: open upload: %w", errOpen)
	}
	defer func() { _ = src.Close() }()

	name := s.generateFilename(header.Filename)
	dstPath := filepath.Join(s.dir, name)
	dst, errCreate := os.Create(dstPath)
	if errCreate != nil {
		return "", fmt.Errorf("storage: create file: %w", errCreate)
	}
	if _, errCopy := io.Copy(dst, src); errCopy != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("storage: write file: %w", errCopy)
	}
	if errClose := dst.Close(); errClose != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("storage: close file: %w", errClose)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove deletes the file behind a public URL path. A file that is already
// gone is not an error; a URL outside the public path is rejected.
func (s *LocalStore) Remove(publicURL string) error {
	trimmed := strings.TrimSpace(publicURL)
	if trimmed == "" {
		return nil
	}
	cleaned := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	if !strings.HasPrefix(cleaned, s.publicPath+"/") {
		return fmt.Errorf("storage: url %s outside public path", publicURL)
	}
	name := path.Base(cleaned)
	if errRemove := os.Remove(filepath.Join(s.dir, name)); errRemove != nil && !os.IsNotExist(errRemove) {
		return fmt.Errorf("storage: remove file: %w", errRemove)
	}
	return nil
}
