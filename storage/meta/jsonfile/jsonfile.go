package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/storage/meta"
)

// fileShape is the on-disk representation: a single JSON document holding
// every record in insertion order.
type fileShape struct {
	Media []*meta.Record `json:"media"`
}

// Store keeps all media records in one JSON file. Every logical operation
// is a load-modify-save over the full set, guarded by a single mutex so
// concurrent appends never lose each other's writes.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a JSON-file metadata store, creating the parent
// directory and seeding an empty document when the file does not exist.
func NewStore(cfg *config.JSONMetadataStrategy) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("json metadata config is nil")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create metadata directory: %w", err)
	}

	s := &Store{path: cfg.Path}

	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(&fileShape{Media: []*meta.Record{}}); err != nil {
			return nil, fmt.Errorf("failed to seed metadata file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat metadata file: %w", err)
	}

	return s, nil
}

func (s *Store) load() (*fileShape, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileShape{Media: []*meta.Record{}}, nil
		}
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var doc fileShape
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("metadata file is corrupt: %w", err)
	}

	if doc.Media == nil {
		doc.Media = []*meta.Record{}
	}

	return &doc, nil
}

// save writes the full document to a temp file and renames it into place,
// so readers observe either the old or the new set, never a torn write.
func (s *Store) save(doc *fileShape) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".media-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp metadata file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp metadata file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace metadata file: %w", err)
	}

	return nil
}

func (s *Store) Append(ctx context.Context, rec *meta.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Media = append(doc.Media, rec)
	return s.save(doc)
}

func (s *Store) FindByParent(ctx context.Context, itemID string) ([]*meta.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	matches := []*meta.Record{}
	for _, rec := range doc.Media {
		if rec.ItemID == itemID {
			matches = append(matches, rec)
		}
	}

	return matches, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*meta.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range doc.Media {
		if rec.ID == id {
			return rec, nil
		}
	}

	return nil, meta.ErrNotFound
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.Media[:0]
	found := false
	for _, rec := range doc.Media {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}

	if !found {
		return meta.ErrNotFound
	}

	doc.Media = kept
	return s.save(doc)
}
