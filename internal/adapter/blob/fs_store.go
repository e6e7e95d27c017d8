package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursely/course-api/internal/usecase"
)

// FSStore is a filesystem-backed object store for uploaded images. Files land
// under dir and are served by the HTTP layer at baseURL.
type FSStore struct {
	dir     string
	baseURL string
}

func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FSStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *FSStore) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	name := filepath.Base(path) // no traversal outside dir
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *FSStore) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		dst := filepath.Join(s.dir, filepath.Base(p))
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", dst, err)
		}
	}
	return nil
}

var _ usecase.ObjectStore = (*FSStore)(nil)
