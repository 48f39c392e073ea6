package media

import (
	"strings"

	"github.com/google/uuid"

	"github.com/indieinfra/photobin/storage/blob"
)

// Pipeline limits and variant parameters. The "original" variant is itself
// a re-encode of the upload, so every stored file is format/quality
// normalized.
const (
	MaxPerItem     = 3
	MaxUploadBytes = 5 << 20

	OriginalQuality = 90

	MediumMaxSize = 1200
	MediumQuality = 85

	ThumbMaxSize = 320
	ThumbQuality = 80
)

// Saturation/brightness boost applied only to the original variant when
// enhancement is requested.
const (
	enhanceSaturation = 5
	enhanceBrightness = 2
)

// NewID returns a fresh opaque media identifier. The format is "m_" plus
// twelve hex characters of a random UUID; it is not load-bearing beyond
// uniqueness.
func NewID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "m_" + hex[:12]
}

// ParseVariant resolves a requested variant name to a blob folder. Unknown
// or empty names resolve to the original, mirroring the lenient lookup the
// service has always had.
func ParseVariant(name string) string {
	switch name {
	case blob.VariantMedium:
		return blob.VariantMedium
	case blob.VariantThumb:
		return blob.VariantThumb
	default:
		return blob.VariantOriginal
	}
}

// InputError is a client-side validation failure: the request is wrong, not
// the server. Handlers map it to 400.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// ErrQuotaExceeded is returned when an item already holds MaxPerItem photos.
var ErrQuotaExceeded = &InputError{Reason: "Max 3 photos per item"}
