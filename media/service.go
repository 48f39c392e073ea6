package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/indieinfra/photobin/encoder"
	"github.com/indieinfra/photobin/storage/blob"
	"github.com/indieinfra/photobin/storage/meta"
)

// Service orchestrates the ingestion pipeline and the read/delete paths
// over the metadata and blob stores. The metadata store is the single
// source of truth: a blob without a record is invisible to every read path.
type Service struct {
	meta  meta.Store
	blobs blob.Store
}

func NewService(metaStore meta.Store, blobStore blob.Store) *Service {
	return &Service{meta: metaStore, blobs: blobStore}
}

// IngestInput carries one upload through the pipeline.
type IngestInput struct {
	ItemID   string
	MIMEType string
	Data     []byte
	Enhance  bool
}

// VariantURLs are the access locators returned to the uploader.
type VariantURLs struct {
	Original string `json:"original"`
	Medium   string `json:"medium"`
	Thumb    string `json:"thumb"`
}

// IngestResult is returned on a fully successful upload.
type IngestResult struct {
	Record   *meta.Record
	Enhanced bool
	URLs     VariantURLs
}

// Ingest validates the upload, derives the three variants, persists them
// (original, medium, thumb, in that order), and commits the metadata record
// last. A crash mid-pipeline can orphan blobs but never leaves a record
// pointing at missing files. Blobs written before a failure are not rolled
// back; without a committed record they are unreachable.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	itemID := strings.TrimSpace(in.ItemID)
	if itemID == "" {
		return nil, &InputError{Reason: "itemId required"}
	}
	if len(in.Data) == 0 {
		return nil, &InputError{Reason: "photo file required"}
	}
	if len(in.Data) > MaxUploadBytes {
		return nil, &InputError{Reason: "File too large (max 5 MiB)"}
	}

	format, ok := encoder.FormatFromMIME(in.MIMEType)
	if !ok {
		return nil, &InputError{Reason: "Unsupported file type"}
	}

	// Quota check happens before any id or file is created. It is not
	// atomic with the append below: two concurrent uploads for one item can
	// both pass and transiently exceed the quota.
	existing, err := s.meta.FindByParent(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("quota check failed: %w", err)
	}
	if len(existing) >= MaxPerItem {
		return nil, ErrQuotaExceeded
	}

	img, err := encoder.Decode(in.Data)
	if err != nil {
		return nil, &InputError{Reason: "Unsupported or corrupt image data"}
	}

	if in.Enhance {
		img = encoder.Enhance(img, encoder.EnhanceOptions{
			Saturation: enhanceSaturation,
			Brightness: enhanceBrightness,
		})
	}

	originalBytes, err := encoder.Encode(img, format, OriginalQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}

	// Medium and thumb derive from the re-encoded original, not the raw
	// upload bytes.
	origImg, err := encoder.Decode(originalBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read original: %w", err)
	}

	mediumBytes, err := deriveVariant(origImg, MediumMaxSize, format, MediumQuality, in.Enhance)
	if err != nil {
		return nil, fmt.Errorf("failed to derive medium variant: %w", err)
	}

	thumbBytes, err := deriveVariant(origImg, ThumbMaxSize, format, ThumbQuality, in.Enhance)
	if err != nil {
		return nil, fmt.Errorf("failed to derive thumb variant: %w", err)
	}

	id := NewID()
	filename := fmt.Sprintf("%s.%s", id, format)
	contentType := format.ContentType()

	if err := s.blobs.Put(ctx, blob.VariantOriginal, filename, contentType, originalBytes); err != nil {
		return nil, fmt.Errorf("failed to store original: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.VariantMedium, filename, contentType, mediumBytes); err != nil {
		return nil, fmt.Errorf("failed to store medium variant: %w", err)
	}
	if err := s.blobs.Put(ctx, blob.VariantThumb, filename, contentType, thumbBytes); err != nil {
		return nil, fmt.Errorf("failed to store thumb variant: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rec := &meta.Record{
		ID:        id,
		ItemID:    itemID,
		Ext:       string(format),
		CreatedAt: time.Now().UTC(),
		Width:     &width,
		Height:    &height,
		Size:      int64(len(originalBytes)),
	}

	if err := s.meta.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to commit metadata: %w", err)
	}

	return &IngestResult{
		Record:   rec,
		Enhanced: in.Enhance,
		URLs:     URLsFor(id),
	}, nil
}

// deriveVariant fits the image into a size x size box (never enlarging),
// optionally applies the normalize+sharpen part of the enhance chain, and
// re-encodes at the variant quality.
func deriveVariant(img image.Image, size int, format encoder.Format, quality int, enhance bool) ([]byte, error) {
	out := encoder.Fit(img, size, size)
	if enhance {
		out = encoder.Enhance(out, encoder.EnhanceOptions{})
	}

	return encoder.Encode(out, format, quality)
}

// URLsFor derives the access locators of every variant of an id.
func URLsFor(id string) VariantURLs {
	return VariantURLs{
		Original: fmt.Sprintf("/media/%s", id),
		Medium:   fmt.Sprintf("/media/%s?variant=medium", id),
		Thumb:    fmt.Sprintf("/media/%s?variant=thumb", id),
	}
}

// OpenVariant resolves an id plus variant name to the stored bytes and
// their content type. When no record exists the extension falls back to
// jpg so legacy or orphaned files stay servable; a missing blob is then
// reported as not-found like any other.
func (s *Service) OpenVariant(ctx context.Context, id, variantName string) (io.ReadCloser, string, error) {
	variant := ParseVariant(variantName)

	ext := "jpg"
	rec, err := s.meta.FindByID(ctx, id)
	switch {
	case err == nil:
		ext = rec.Ext
	case errors.Is(err, meta.ErrNotFound):
		// Deliberate leniency: fall through with the jpg default.
	default:
		return nil, "", fmt.Errorf("failed to look up record: %w", err)
	}

	format, ok := encoder.ParseFormat(ext)
	if !ok {
		format = encoder.FormatJPEG
	}

	rc, err := s.blobs.Open(ctx, variant, fmt.Sprintf("%s.%s", id, ext))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, "", meta.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open blob: %w", err)
	}

	return rc, format.ContentType(), nil
}

// Delete removes every variant blob and then the metadata record, the
// inverse of the ingestion order. Missing individual blobs are tolerated;
// a crash mid-deletion leaves a record pointing at partially-missing blobs,
// which readers already treat as not-found.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.meta.FindByID(ctx, id)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s.%s", id, rec.Ext)
	for _, variant := range blob.Variants() {
		if err := s.blobs.Remove(ctx, variant, filename); err != nil {
			return fmt.Errorf("failed to remove %s blob: %w", variant, err)
		}
	}

	return s.meta.Remove(ctx, id)
}

// ListByItem returns every record for the item in insertion order.
func (s *Service) ListByItem(ctx context.Context, itemID string) ([]*meta.Record, error) {
	return s.meta.FindByParent(ctx, strings.TrimSpace(itemID))
}
