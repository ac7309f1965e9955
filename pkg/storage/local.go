package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("storage: file not found")

// Store keeps uploaded files on the local filesystem. Resumes and profile
// photos live in separate subdirectories under the configured root, and are
// only ever served back through authenticated endpoints.
type Store struct {
	resumeDir string
	photoDir  string
}

// NewLocalStore creates the upload directories under root if needed.
func NewLocalStore(root string) (*Store, error) {
	s := &Store{
		resumeDir: filepath.Join(root, "resumes"),
		photoDir:  filepath.Join(root, "photos"),
	}
	for _, dir := range []string{s.resumeDir, s.photoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SaveResume writes a resume and returns the stored filename. Names are
// unique by construction (owner slug + random suffix), so concurrent writes
// never collide.
func (s *Store) SaveResume(ownerEmail, originalName string, data []byte) (string, error) {
	return save(s.resumeDir, ownerEmail, originalName, data)
}

// SavePhoto writes a profile photo and returns the stored filename.
func (s *Store) SavePhoto(ownerEmail, originalName string, data []byte) (string, error) {
	return save(s.photoDir, ownerEmail, originalName, data)
}

// ReadResume returns the contents of a stored resume.
func (s *Store) ReadResume(filename string) ([]byte, error) {
	return read(s.resumeDir, filename)
}

// ReadPhoto returns the contents of a stored photo.
func (s *Store) ReadPhoto(filename string) ([]byte, error) {
	return read(s.photoDir, filename)
}

func save(dir, ownerEmail, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := slugify(ownerEmail) + "_" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

func read(dir, filename string) ([]byte, error) {
	// Reject anything that is not a bare filename (path traversal)
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return nil, ErrFileNotFound
	}
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return data, nil
}

// slugify turns an email into a filesystem-safe prefix, the same way the
// resume naming scheme has always worked: non-alphanumerics become '_'.
func slugify(email string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(email) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
