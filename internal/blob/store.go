// Package blob stores uploaded avatar images on the local filesystem and
// serves them under a public base URL.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxAvatarSize is the upload limit for profile pictures.
const MaxAvatarSize = 5 * 1024 * 1024

var (
	ErrTooLarge    = errors.New("file too large")
	ErrNotAnImage  = errors.New("file is not an image")
	ErrInvalidPath = errors.New("invalid object path")
)

type Store interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

type FileStore struct {
	root    string
	baseURL string
}

func NewFileStore(root, baseURL string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create blob root %s: %w", root, err)
	}
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes data to path, replacing any previous object, and returns its
// public URL.
func (s *FileStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if len(data) > MaxAvatarSize {
		return "", ErrTooLarge
	}

	clean := filepath.Clean("/" + path)[1:]
	if clean == "" || clean == "." {
		return "", ErrInvalidPath
	}

	full := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("unable to create directory: %w", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("unable to write %s: %w", clean, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("unable to store %s: %w", clean, err)
	}

	return s.baseURL + "/" + filepath.ToSlash(clean), nil
}
