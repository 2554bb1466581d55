package blobstore

import (
	"context"
	"os"
	"path/filepath"
)

// Dir is a filesystem-backed store, used in tests and for inspecting
// pipeline output locally without touching the real bucket.
type Dir struct {
	Root string
}

var _ Store = Dir{}

func (d Dir) Get(_ context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (d Dir) Put(_ context.Context, key string, body []byte, _ PutOptions) error {
	path := filepath.Join(d.Root, filepath.FromSlash(key))
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
