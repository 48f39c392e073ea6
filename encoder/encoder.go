package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	webpenc "github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "golang.org/x/image/webp"
)

// Format is a canonical stored-image format, doubling as the file extension.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatFromMIME maps an accepted MIME type to its canonical format.
// Anything that is not png or webp encodes as jpg.
func FormatFromMIME(mimeType string) (Format, bool) {
	switch mimeType {
	case "image/jpeg":
		return FormatJPEG, true
	case "image/png":
		return FormatPNG, true
	case "image/webp":
		return FormatWebP, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type for serving a stored file of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ParseFormat validates a stored extension string.
func ParseFormat(ext string) (Format, bool) {
	switch Format(ext) {
	case FormatJPEG, FormatPNG, FormatWebP:
		return Format(ext), true
	default:
		return "", false
	}
}

// Decode parses image bytes in any registered format (jpeg, png, webp).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// EnhanceOptions tunes the optional saturation and brightness boost applied
// after contrast normalization and sharpening. Percentages in -100..100;
// zero values leave the channel untouched.
type EnhanceOptions struct {
	Saturation float64
	Brightness float64
}

// Enhance normalizes contrast, sharpens edges, and optionally boosts
// saturation and brightness. Deterministic for identical inputs.
func Enhance(img image.Image, opts EnhanceOptions) image.Image {
	out := normalize(img)
	out = imaging.Sharpen(out, 0.5)

	if opts.Saturation != 0 {
		out = imaging.AdjustSaturation(out, opts.Saturation)
	}
	if opts.Brightness != 0 {
		out = imaging.AdjustBrightness(out, opts.Brightness)
	}

	return out
}

// normalize stretches the channel histogram so the darkest value maps to 0
// and the brightest to 255.
func normalize(img image.Image) *image.NRGBA {
	lo, hi := channelRange(img)
	if hi <= lo || (lo == 0 && hi == 255) {
		return imaging.Clone(img)
	}

	scale := 255.0 / float64(hi-lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = stretch(c.R, lo, scale)
		c.G = stretch(c.G, lo, scale)
		c.B = stretch(c.B, lo, scale)
		return c
	})
}

func stretch(v, lo uint8, scale float64) uint8 {
	if v <= lo {
		return 0
	}

	s := float64(v-lo) * scale
	if s >= 255 {
		return 255
	}

	return uint8(s + 0.5)
}

func channelRange(img image.Image) (uint8, uint8) {
	nrgba := imaging.Clone(img)
	lo, hi := uint8(255), uint8(0)

	for i := 0; i+3 < len(nrgba.Pix); i += 4 {
		for _, v := range nrgba.Pix[i : i+3] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	if hi < lo {
		return 0, 255
	}

	return lo, hi
}

// Fit scales the image down to fit within the maxWidth x maxHeight box,
// preserving aspect ratio. Images already inside the box pass through
// untouched; Fit never enlarges.
func Fit(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return img
	}

	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

// Encode re-encodes the image in the given format. Quality applies to jpg
// and webp; png is always lossless.
func Encode(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatWebP:
		options, err := webpenc.NewLossyEncoderOptions(webpenc.PresetDefault, float32(quality))
		if err != nil {
			return nil, fmt.Errorf("failed to create webp encoder options: %w", err)
		}
		if err := webp.Encode(&buf, img, options); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	return buf.Bytes(), nil
}
