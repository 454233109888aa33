package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps one JSON document per collection in a directory.
// Each write replaces the file through a temp file and rename, so readers see either
// the old or the new document, never a torn one.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(c Collection) string {
	return filepath.Join(b.dir, string(c)+".json")
}

func (b *FileBackend) Read(_ context.Context, c Collection) ([]byte, error) {
	data, err := os.ReadFile(b.path(c))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", c, err)
	}
	return data, nil
}

func (b *FileBackend) Write(_ context.Context, c Collection, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, "."+string(c)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp for %s: %w", c, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write %s: %w", c, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", c, err)
	}
	if err := os.Rename(tmpName, b.path(c)); err != nil {
		return fmt.Errorf("store: replace %s: %w", c, err)
	}
	return nil
}

func (b *FileBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.dir)
	if err != nil {
		return fmt.Errorf("store: data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store: data dir %s is not a directory", b.dir)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
