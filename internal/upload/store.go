package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const jpegMimeType = "image/jpeg"

var (
	// ErrInvalidFormat means the client-declared content type was not JPEG.
	// Nothing has been written to disk when this is returned.
	ErrInvalidFormat = errors.New("invalid file format, only JPEG images are accepted")
	// ErrInvalidContent means the stored bytes did not sniff as JPEG. The
	// file has already been removed when this is returned.
	ErrInvalidContent = errors.New("invalid image content")
)

// Store persists uploaded images to a transient directory for the duration
// of a single request. Files are write-then-delete; the store never lists
// or enumerates them.
type Store struct {
	dir string
}

// NewStore creates the transient upload directory if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the transient storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Receive validates and persists one uploaded image. The declared content
// type is checked before any disk write, and the stored bytes are sniffed
// afterwards so a mislabeled file never survives on disk. The stored name
// gets a uuid prefix so concurrent uploads with the same filename cannot
// race on one path.
func (s *Store) Receive(r io.Reader, declaredType, filename string) (string, error) {
	if declaredType != jpegMimeType {
		return "", ErrInvalidFormat
	}

	path := filepath.Join(s.dir, uuid.NewString()+"_"+safeName(filename))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		s.Remove(path)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("image saved")

	ok, err := sniffJPEG(path)
	if err != nil {
		s.Remove(path)
		return "", err
	}
	if !ok {
		s.Remove(path)
		return "", ErrInvalidContent
	}

	return path, nil
}

// Remove deletes a stored file. It is idempotent: removing a file that is
// already gone is not an error, and other failures are logged but not
// returned so cleanup never masks the error that triggered it.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	if err == nil {
		log.Info().Str("path", path).Msg("image removed")
		return
	}
	if !errors.Is(err, os.ErrNotExist) {
		log.Error().Err(err).Str("path", path).Msg("failed to remove image")
	}
}

// safeName reduces a client-supplied filename to its final path component,
// neutralizing path traversal segments.
func safeName(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	name = strings.Trim(name, "./\\")
	if name == "" || name == "." || name == ".." {
		return "upload.jpg"
	}
	return name
}

// sniffJPEG reports whether the stored file's leading bytes identify it as
// a JPEG, regardless of what the client declared.
func sniffJPEG(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s for sniffing: %w", path, err)
	}
	defer f.Close()

	// http.DetectContentType never needs more than 512 bytes.
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read %s for sniffing: %w", path, err)
	}

	return http.DetectContentType(buf[:n]) == jpegMimeType, nil
}
