package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes files below root on the local filesystem.
type LocalStore struct {
	root         string
	publicPrefix string
}

func NewLocalStore(root, publicPrefix string) *LocalStore {
	return &LocalStore{root: root, publicPrefix: publicPrefix}
}

// Root is the directory the store writes into.
func (s *LocalStore) Root() string {
	return s.root
}

// PublicPrefix is the URL path the root directory is served under.
func (s *LocalStore) PublicPrefix() string {
	return s.publicPrefix
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dest, err)
	}

	return publicPath(s.publicPrefix, key), nil
}
