package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduce_ScalesDownPreservingAspectRatio(t *testing.T) {
	img := testImage(300, 200)

	reduced := Reduce(img, Box{Width: 150, Height: 100})

	assert.Equal(t, 150, reduced.Bounds().Dx())
	assert.Equal(t, 100, reduced.Bounds().Dy())
}

func TestReduce_UsesSmallerScaleFactor(t *testing.T) {
	// 400x100 into 150x100: width is the limiting side.
	img := testImage(400, 100)

	reduced := Reduce(img, Box{Width: 150, Height: 100})

	assert.Equal(t, 150, reduced.Bounds().Dx())
	assert.Equal(t, 37, reduced.Bounds().Dy())
	assert.LessOrEqual(t, reduced.Bounds().Dx(), 150)
	assert.LessOrEqual(t, reduced.Bounds().Dy(), 100)
}

func TestReduce_AlreadyFittingImageUnchanged(t *testing.T) {
	img := testImage(100, 50)

	reduced := Reduce(img, Box{Width: 150, Height: 100})

	// Never upscales: the original is returned as-is.
	assert.Equal(t, img, reduced)
	assert.Equal(t, 100, reduced.Bounds().Dx())
	assert.Equal(t, 50, reduced.Bounds().Dy())
}

func TestReduce_ZeroSizeInputIsNoOp(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))

	reduced := Reduce(img, Box{Width: 150, Height: 100})

	assert.Equal(t, img, reduced)
}

func TestReduce_NeverExceedsBox(t *testing.T) {
	for _, dims := range [][2]int{{1000, 1000}, {151, 99}, {149, 101}, {5000, 10}} {
		img := testImage(dims[0], dims[1])
		reduced := Reduce(img, Box{Width: 150, Height: 100})
		assert.LessOrEqual(t, reduced.Bounds().Dx(), 150, "width for %v", dims)
		assert.LessOrEqual(t, reduced.Bounds().Dy(), 100, "height for %v", dims)
	}
}
