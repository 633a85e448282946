package imaging

import (
	"image"

	"golang.org/x/image/draw"
)

// Box is a bounding box for thumbnail reduction.
type Box struct {
	Width  int
	Height int
}

// Reduce downsamples an image to fit within the box, preserving aspect
// ratio. The scale factor is min(boxW/w, boxH/h); images that already fit
// are returned unchanged, so Reduce never upscales. A zero-size input is
// returned as-is to avoid division by zero.
func Reduce(img image.Image, box Box) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return img
	}

	scale := min(float64(box.Width)/float64(w), float64(box.Height)/float64(h))
	if scale >= 1 {
		return img
	}

	targetW := int(float64(w) * scale)
	targetH := int(float64(h) * scale)
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
