package export

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/scandesk/scandesk/internal/domain"
)

// Verify re-opens the exported PDF and checks that its page count matches
// the handle. Run before hand-off when the caller wants the extra
// assurance of a readable file.
func Verify(h *Handle) error {
	doc, err := fitz.New(h.Path)
	if err != nil {
		return domain.ExportError("open exported PDF for verification", err)
	}
	defer doc.Close()

	if got := doc.NumPage(); got != h.PageCount {
		return domain.ExportError(
			fmt.Sprintf("exported PDF has %d pages, expected %d", got, h.PageCount), nil)
	}

	return nil
}
