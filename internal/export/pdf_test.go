package export

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandesk/scandesk/internal/imaging"
	"github.com/scandesk/scandesk/internal/observability"
	"github.com/scandesk/scandesk/internal/storage"
)

func jpegPage(t *testing.T, index, w, h int) *storage.Page {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 15), G: uint8(y * 15), B: 120, A: 255})
		}
	}
	data, err := imaging.NewCodec().Encode(img, 0.65)
	require.NoError(t, err)
	return &storage.Page{Index: index, Content: data}
}

func testDocument(title string) *storage.Document {
	return &storage.Document{ID: uuid.New(), Title: title, CreatedAt: time.Now()}
}

// pdfPageCount counts page objects in the raw PDF bytes. fpdf writes one
// "/Type /Page" object per page plus a single "/Type /Pages" tree node.
func pdfPageCount(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestExport_WritesOnePdfPagePerStoredPage(t *testing.T) {
	exporter := NewExporter(observability.Nop(), t.TempDir())

	pages := []*storage.Page{
		jpegPage(t, 0, 12, 9),
		jpegPage(t, 1, 9, 12),
		jpegPage(t, 2, 10, 10),
	}

	handle, err := exporter.Export(testDocument("Invoice 2024"), pages)
	require.NoError(t, err)
	defer handle.Cleanup()

	assert.Equal(t, 3, handle.PageCount)
	assert.Empty(t, handle.SkippedPages)
	assert.Equal(t, "Invoice 2024.pdf", filepath.Base(handle.Path))
	assert.Equal(t, 3, pdfPageCount(t, handle.Path))
}

func TestExport_SkipsUndecodablePages(t *testing.T) {
	exporter := NewExporter(observability.Nop(), t.TempDir())

	pages := []*storage.Page{
		jpegPage(t, 0, 8, 8),
		{Index: 1, Content: []byte("not an image")},
		jpegPage(t, 2, 8, 8),
	}

	handle, err := exporter.Export(testDocument("Partial"), pages)
	require.NoError(t, err)
	defer handle.Cleanup()

	assert.Equal(t, 2, handle.PageCount)
	assert.Equal(t, []int{1}, handle.SkippedPages)
	assert.Equal(t, 2, pdfPageCount(t, handle.Path))
}

func TestExport_AllPagesUndecodableFails(t *testing.T) {
	exporter := NewExporter(observability.Nop(), t.TempDir())

	pages := []*storage.Page{
		{Index: 0, Content: []byte("garbage")},
		{Index: 1, Content: []byte("more garbage")},
	}

	_, err := exporter.Export(testDocument("Hopeless"), pages)
	assert.Error(t, err)
}

func TestExport_NoPagesFails(t *testing.T) {
	exporter := NewExporter(observability.Nop(), t.TempDir())

	_, err := exporter.Export(testDocument("Empty"), nil)
	assert.Error(t, err)
}

func TestHandleCleanup_RemovesFileAndIsIdempotent(t *testing.T) {
	exporter := NewExporter(observability.Nop(), t.TempDir())

	handle, err := exporter.Export(testDocument("Ephemeral"), []*storage.Page{jpegPage(t, 0, 6, 6)})
	require.NoError(t, err)

	_, err = os.Stat(handle.Path)
	require.NoError(t, err)

	require.NoError(t, handle.Cleanup())
	_, err = os.Stat(handle.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, handle.Cleanup())
}

func TestFileName_SanitizesTitle(t *testing.T) {
	assert.Equal(t, "a-b.pdf", fileName("a/b"))
	assert.Equal(t, "a-b.pdf", fileName(`a\b`))
	assert.Equal(t, "document.pdf", fileName("   "))
	assert.Equal(t, "Invoice 2024.pdf", fileName("Invoice 2024"))
}
