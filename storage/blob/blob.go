package blob

import (
	"context"
	"errors"
	"io"
)

// Variant folder names. Each accepted upload owns exactly one blob per
// variant, all sharing the same filename.
const (
	VariantOriginal = "original"
	VariantMedium   = "medium"
	VariantThumb    = "thumb"
)

// Variants lists every variant folder in derivation order.
func Variants() []string {
	return []string{VariantOriginal, VariantMedium, VariantThumb}
}

// ErrNotFound is returned by Open when the blob does not exist.
var ErrNotFound = errors.New("blob not found")

// Store holds derived image bytes addressed by variant folder and filename.
// Remove tolerates missing blobs; only Open reports their absence.
type Store interface {
	Put(ctx context.Context, variant, filename, contentType string, data []byte) error
	Open(ctx context.Context, variant, filename string) (io.ReadCloser, error)
	Remove(ctx context.Context, variant, filename string) error
}
