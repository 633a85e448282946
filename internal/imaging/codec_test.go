package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 120, A: 255})
		}
	}
	return img
}

func TestEncodeDecode_RoundTripKeepsDimensions(t *testing.T) {
	codec := NewCodec()
	img := testImage(10, 7)

	data, err := codec.Encode(img, 0.65)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 10, decoded.Bounds().Dx())
	assert.Equal(t, 7, decoded.Bounds().Dy())
}

func TestEncode_ZeroDimensionsFails(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Encode(image.NewRGBA(image.Rect(0, 0, 0, 0)), 0.65)
	assert.Error(t, err)
}

func TestEncode_NilImageFails(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Encode(nil, 0.65)
	assert.Error(t, err)
}

func TestEncode_QualityBounds(t *testing.T) {
	codec := NewCodec()
	img := testImage(4, 4)

	_, err := codec.Encode(img, 0)
	assert.Error(t, err)

	_, err = codec.Encode(img, 1.5)
	assert.Error(t, err)

	_, err = codec.Encode(img, 1.0)
	assert.NoError(t, err)
}

func TestDecode_CorruptBytesFails(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDecode_EmptyBytesFails(t *testing.T) {
	codec := NewCodec()

	_, err := codec.Decode(nil)
	assert.Error(t, err)
}
