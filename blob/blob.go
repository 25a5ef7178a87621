// Package blob is the proof/image storage boundary: bytes in, stable URL out.
package blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	// Put stores the bytes and returns a URL that stays valid for the
	// lifetime of the referencing entity.
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Remove is best-effort cleanup for a URL previously returned by Put.
	Remove(ctx context.Context, url string) error
}

// LocalStore keeps uploads on disk under dir and serves them at
// baseURL + "/uploads/<file>". Filenames are regenerated so client names
// can never collide or escape the directory.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Put(_ context.Context, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	if len(ext) > 10 {
		ext = ""
	}
	fname := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, fname), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.baseURL + "/uploads/" + fname, nil
}

func (s *LocalStore) Remove(_ context.Context, url string) error {
	fname := path.Base(url)
	if fname == "." || fname == "/" || strings.Contains(fname, "..") {
		return fmt.Errorf("refusing to remove %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, fname))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
