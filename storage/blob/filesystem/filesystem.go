package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/storage/blob"
)

// Store keeps variant blobs in sibling directories under a base path,
// one directory per variant, files named by the caller.
type Store struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStore creates a filesystem blob store, creating the base path and
// every variant directory up front.
func NewStore(cfg *config.FilesystemBlobStrategy) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem blob config is nil")
	}

	for _, variant := range blob.Variants() {
		if err := os.MkdirAll(filepath.Join(cfg.Path, variant), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", variant, err)
		}
	}

	return &Store{basePath: cfg.Path}, nil
}

func (fs *Store) path(variant, filename string) string {
	return filepath.Join(fs.basePath, variant, filename)
}

// Put writes the blob via a temp file and rename so a crashed write never
// leaves a half-written file under the variant directory.
func (fs *Store) Put(ctx context.Context, variant, filename, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir := filepath.Join(fs.basePath, variant)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, fs.path(variant, filename)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to place file: %w", err)
	}

	return nil
}

// Open returns a reader over the stored blob, or blob.ErrNotFound.
func (fs *Store) Open(ctx context.Context, variant, filename string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	f, err := os.Open(fs.path(variant, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// Remove deletes the blob. A missing file is treated as success.
func (fs *Store) Remove(ctx context.Context, variant, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path(variant, filename)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}
