package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FSStore keeps blobs on the local filesystem under a directory the HTTP
// server exposes at baseURL.
type FSStore struct {
	dir     string
	baseURL string
}

func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create dir: %w", err)
	}
	return &FSStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *FSStore) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + sanitizeExt(filename)
	file, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("blob: create: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("blob: write: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *FSStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.baseURL+"/")
}

func (s *FSStore) Delete(ctx context.Context, url string) error {
	if !s.Owns(url) {
		return ErrNotOwned
	}
	name := strings.TrimPrefix(url, s.baseURL+"/")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return ErrNotOwned
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("blob: delete: %w", err)
	}
	return nil
}

// Dir returns the directory served as the store's public root.
func (s *FSStore) Dir() string {
	return s.dir
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".mp4", ".webm", ".pdf":
		return ext
	default:
		return ""
	}
}
