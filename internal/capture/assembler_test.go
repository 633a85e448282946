package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scandesk/scandesk/internal/observability"
	"github.com/scandesk/scandesk/internal/storage"
)

type fakeSource struct {
	pages []image.Image
	err   error
}

func (s *fakeSource) Scan(ctx context.Context) ([]image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pages, nil
}

func testPage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 90, A: 255})
		}
	}
	return img
}

func newTestAssembler(t *testing.T) (*Assembler, *storage.DocumentRepository) {
	t.Helper()

	db, err := storage.Open(context.Background(), storage.OpenOptions{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewDocumentRepository(db, observability.Nop(), "Scanned document")
	asm := NewAssembler(observability.Nop(), repo, Config{
		Quality:              0.65,
		MaxConcurrentEncodes: 2,
		DefaultTitle:         "Scanned document",
	})
	return asm, repo
}

func TestBeginCommit_PersistsAllPagesInOrder(t *testing.T) {
	asm, repo := newTestAssembler(t)
	ctx := context.Background()

	source := &fakeSource{pages: []image.Image{
		testPage(8, 6), testPage(6, 8), testPage(5, 5),
	}}

	require.NoError(t, asm.Begin(ctx, source))
	assert.Equal(t, StateAwaitingName, asm.State())

	result, err := asm.Commit(ctx, "Receipts")
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, "Receipts", result.Document.Title)

	pages, err := repo.Pages(ctx, result.Document.ID)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, page := range pages {
		assert.Equal(t, i, page.Index)
		assert.NotEmpty(t, page.Content)
	}
}

func TestCommit_EmptyTitleUsesDefault(t *testing.T) {
	asm, _ := newTestAssembler(t)
	ctx := context.Background()

	require.NoError(t, asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}}))

	result, err := asm.Commit(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Scanned document", result.Document.Title)
}

func TestBegin_EncodeFailureVoidsWholeSession(t *testing.T) {
	asm, repo := newTestAssembler(t)
	ctx := context.Background()

	// A zero-dimension page cannot be encoded; the session must not
	// produce a truncated two-page document.
	source := &fakeSource{pages: []image.Image{
		testPage(4, 4),
		image.NewRGBA(image.Rect(0, 0, 0, 0)),
		testPage(4, 4),
	}}

	err := asm.Begin(ctx, source)
	require.Error(t, err)
	assert.Equal(t, StateFailed, asm.State())

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = asm.Commit(ctx, "Nope")
	assert.Error(t, err)
}

func TestBegin_CancelledSource(t *testing.T) {
	asm, repo := newTestAssembler(t)
	ctx := context.Background()

	err := asm.Begin(ctx, &fakeSource{err: ErrCancelled})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, StateCancelled, asm.State())

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestBegin_RejectedWhileSessionPending(t *testing.T) {
	asm, _ := newTestAssembler(t)
	ctx := context.Background()

	require.NoError(t, asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}}))
	require.Equal(t, StateAwaitingName, asm.State())

	err := asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}})
	assert.Error(t, err)
	assert.Equal(t, StateAwaitingName, asm.State())
}

func TestCancel_DiscardsPendingPages(t *testing.T) {
	asm, repo := newTestAssembler(t)
	ctx := context.Background()

	require.NoError(t, asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}}))
	asm.Cancel()
	assert.Equal(t, StateCancelled, asm.State())

	_, err := asm.Commit(ctx, "Too late")
	assert.Error(t, err)

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestAssembler_ReusableAfterTerminalState(t *testing.T) {
	asm, _ := newTestAssembler(t)
	ctx := context.Background()

	require.NoError(t, asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}}))
	asm.Cancel()

	require.NoError(t, asm.Begin(ctx, &fakeSource{pages: []image.Image{testPage(4, 4)}}))
	result, err := asm.Commit(ctx, "Second attempt")
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
}

func TestBegin_EmptyScanFails(t *testing.T) {
	asm, _ := newTestAssembler(t)

	err := asm.Begin(context.Background(), &fakeSource{})
	assert.Error(t, err)
	assert.Equal(t, StateFailed, asm.State())
}

func TestBegin_NonCancelSourceErrorFailsSession(t *testing.T) {
	asm, _ := newTestAssembler(t)

	scanErr := errors.New("camera unavailable")
	err := asm.Begin(context.Background(), &fakeSource{err: scanErr})
	assert.ErrorIs(t, err, scanErr)
	assert.Equal(t, StateFailed, asm.State())
}
