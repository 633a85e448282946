// Package imaging provides the page image codec and thumbnail reduction.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/scandesk/scandesk/internal/domain"
)

// Codec lossy-compresses captured page images for storage and decodes
// stored bytes back to displayable images. Pure transforms, no side effects.
type Codec struct{}

// NewCodec creates a new page image codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode compresses a raster image as JPEG at the given quality factor,
// in (0, 1].
func (c *Codec) Encode(img image.Image, quality float64) ([]byte, error) {
	if img == nil {
		return nil, domain.EncodingError("nil image", nil)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, domain.EncodingError("image has zero dimensions", nil)
	}

	if quality <= 0 || quality > 1 {
		return nil, domain.EncodingError("quality must be in (0, 1]", nil)
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: int(quality * 100)}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		return nil, domain.EncodingError("encode JPEG", err)
	}

	return buf.Bytes(), nil
}

// Decode reconstructs a displayable image from stored bytes. Callers treat
// a failure as "page unavailable" and skip that page rather than abort the
// whole document.
func (c *Codec) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, domain.DecodingError("empty content", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.DecodingError("decode page content", err)
	}

	return img, nil
}
