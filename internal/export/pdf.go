// Package export builds multi-page PDF files from stored documents.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/scandesk/scandesk/internal/domain"
	"github.com/scandesk/scandesk/internal/imaging"
	"github.com/scandesk/scandesk/internal/observability"
	"github.com/scandesk/scandesk/internal/storage"
)

// Handle refers to a finished export: a PDF written to a temporary
// location, ready for hand-off to the share/export step. Ownership of the
// file transfers to the caller only on successful hand-off; otherwise the
// caller must call Cleanup.
type Handle struct {
	Path      string
	PageCount int
	// SkippedPages lists indices of pages that failed to decode and were
	// omitted from the PDF.
	SkippedPages []int

	tempDir string
}

// Cleanup removes the export's temporary directory and file. Safe to call
// more than once.
func (h *Handle) Cleanup() error {
	if h.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(h.tempDir)
	h.tempDir = ""
	if err != nil {
		return domain.IOError("remove export temp directory", err)
	}
	return nil
}

// Exporter turns a document's stored pages into one PDF file.
type Exporter struct {
	logger  *observability.Logger
	codec   *imaging.Codec
	tempDir string
}

// NewExporter creates an exporter. tempDir may be empty to use the system
// temp directory.
func NewExporter(logger *observability.Logger, tempDir string) *Exporter {
	return &Exporter{
		logger:  logger.WithComponent("exporter"),
		codec:   imaging.NewCodec(),
		tempDir: tempDir,
	}
}

// Export decodes the document's pages in index order and writes them, one
// image per PDF page, to a uniquely located `<title>.pdf`. A page that
// fails to decode is skipped and recorded: a partial PDF is preferred over
// no PDF. With zero decodable pages, or on write failure, nothing is
// returned.
func (e *Exporter) Export(doc *storage.Document, pages []*storage.Page) (*Handle, error) {
	if len(pages) == 0 {
		return nil, domain.ExportError("document has no pages", nil)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	var skipped []int
	added := 0

	for _, page := range pages {
		img, err := e.codec.Decode(page.Content)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("document_id", doc.ID.String()).
				Int("page_index", page.Index).
				Msg("Page failed to decode, omitting from PDF")
			skipped = append(skipped, page.Index)
			continue
		}

		bounds := img.Bounds()
		w, h := float64(bounds.Dx()), float64(bounds.Dy())

		// Page size tracks the image size exactly; the size encodes the
		// orientation, so "P" is always correct here.
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		name := fmt.Sprintf("page-%d", page.Index)
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(page.Content))
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

		added++
	}

	if added == 0 {
		return nil, domain.ExportError("no pages could be decoded", nil)
	}

	if err := pdf.Error(); err != nil {
		return nil, domain.ExportError("assemble PDF", err)
	}

	dir, err := os.MkdirTemp(e.tempDir, "scandesk-export-*")
	if err != nil {
		return nil, domain.IOError("create export temp directory", err)
	}

	path := filepath.Join(dir, fileName(doc.Title))
	if err := pdf.OutputFileAndClose(path); err != nil {
		os.RemoveAll(dir)
		return nil, domain.ExportError("write PDF file", err)
	}

	e.logger.Info().
		Str("document_id", doc.ID.String()).
		Str("path", path).
		Int("pages", added).
		Ints("skipped_pages", skipped).
		Msg("Exported document")

	return &Handle{
		Path:         path,
		PageCount:    added,
		SkippedPages: skipped,
		tempDir:      dir,
	}, nil
}

// fileName turns a document title into a safe `<title>.pdf` file name.
func fileName(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "document"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", string(rune(0)), "")
	return replacer.Replace(title) + ".pdf"
}
