package meta

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("media record not found")

// Record describes one accepted upload and its derived variant set.
// Width and Height are the pixel dimensions of the original variant and
// may be nil when the decoder could not report them.
type Record struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Ext       string    `json:"ext"`
	CreatedAt time.Time `json:"created_at"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	Size      int64     `json:"size"`
}

// Store is the authoritative list of media records. Implementations must
// serialize their own load-modify-save cycles; callers may invoke these
// methods concurrently.
type Store interface {
	// Append adds one record. Records are never updated in place.
	Append(ctx context.Context, rec *Record) error

	// FindByParent returns every record whose ItemID matches, in insertion
	// order. The slice is never nil.
	FindByParent(ctx context.Context, itemID string) ([]*Record, error)

	// FindByID returns the matching record, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Record, error)

	// Remove deletes the record for id, or returns ErrNotFound.
	Remove(ctx context.Context, id string) error
}
