package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandesk/scandesk/internal/imaging"
)

func writePageFile(t *testing.T, dir, name string, w, h int) {
	t.Helper()

	data, err := imaging.NewCodec().Encode(testPage(w, h), 0.9)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestDirectorySource_ReadsPagesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writePageFile(t, dir, "02-middle.jpg", 6, 6)
	writePageFile(t, dir, "01-first.jpg", 4, 4)
	writePageFile(t, dir, "03-last.jpeg", 8, 8)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	pages, err := NewDirectorySource(dir).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 4, pages[0].Bounds().Dx())
	assert.Equal(t, 6, pages[1].Bounds().Dx())
	assert.Equal(t, 8, pages[2].Bounds().Dx())
}

func TestDirectorySource_EmptyDirectoryFails(t *testing.T) {
	_, err := NewDirectorySource(t.TempDir()).Scan(context.Background())
	assert.Error(t, err)
}

func TestDirectorySource_MissingDirectoryFails(t *testing.T) {
	_, err := NewDirectorySource(filepath.Join(t.TempDir(), "absent")).Scan(context.Background())
	assert.Error(t, err)
}

func TestDirectorySource_CorruptPageFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte("not a jpeg"), 0o644))

	_, err := NewDirectorySource(dir).Scan(context.Background())
	assert.Error(t, err)
}

func TestDirectorySource_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writePageFile(t, dir, "page.jpg", 4, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirectorySource(dir).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
