// Package capture consumes scanner sessions and assembles persisted
// documents from the captured pages.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scandesk/scandesk/internal/domain"
	"github.com/scandesk/scandesk/internal/imaging"
)

// ErrCancelled is reported by a Source when the user cancels the session.
var ErrCancelled = errors.New("capture cancelled")

// Source is the external capture collaborator. One Scan call is one
// session: it yields a finite ordered sequence of raw page images, or
// ErrCancelled, or an error. Cropping and scan quality belong to the
// source, not to this package.
type Source interface {
	Scan(ctx context.Context) ([]image.Image, error)
}

// DirectorySource reads page images from a directory in lexical filename
// order. It stands in for the camera scanner when driving scandesk from
// the command line.
type DirectorySource struct {
	Dir   string
	codec *imaging.Codec
}

// NewDirectorySource creates a source over the given directory.
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{Dir: dir, codec: imaging.NewCodec()}
}

// Scan loads every .jpg/.jpeg/.png file in the directory, sorted by name.
func (s *DirectorySource) Scan(ctx context.Context) ([]image.Image, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, domain.IOError("read capture directory", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, domain.ValidationError(fmt.Sprintf("no page images in %s", s.Dir), nil)
	}

	pages := make([]image.Image, 0, len(names))
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("read page file %s", name), err)
		}

		img, err := s.codec.Decode(data)
		if err != nil {
			return nil, domain.DecodingError(fmt.Sprintf("decode page file %s", name), err)
		}

		pages = append(pages, img)
	}

	return pages, nil
}
