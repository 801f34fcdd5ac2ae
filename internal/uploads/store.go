package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedFileType indicates the upload's extension is not allowed.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Store saves uploaded avatar files into a single directory.
type Store struct {
	dir         string
	allowedExts map[string]bool
}

// NewStore creates an avatar store rooted at dir. allowedExts are lowercase
// extensions without the dot, e.g. "png".
func NewStore(dir string, allowedExts []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	exts := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		exts[strings.ToLower(ext)] = true
	}
	return &Store{dir: dir, allowedExts: exts}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Allowed reports whether the filename's extension is on the allow-list.
// The check is case-insensitive; a file without an extension is rejected.
func (s *Store) Allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	return s.allowedExts[ext]
}

// Save writes the uploaded file under a sanitized, collision-free name and
// returns that name. The returned name, not the caller-supplied one, is what
// gets persisted on the user record.
func (s *Store) Save(file io.Reader, originalName string) (string, error) {
	if !s.Allowed(originalName) {
		return "", ErrUnsupportedFileType
	}

	name := uuid.NewString() + "_" + SanitizeFilename(originalName)

	// O_EXCL: the UUID prefix makes collisions implausible, but a clash must
	// fail loudly rather than overwrite someone else's avatar.
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}
	return name, nil
}

// SanitizeFilename strips any path components and reduces the name to a
// conservative character set so it is safe to join onto the upload dir.
func SanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), ".")
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized
}
