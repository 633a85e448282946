package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scandesk/scandesk/internal/export"
	"github.com/scandesk/scandesk/internal/lock"
)

// newExportCmd creates the export subcommand.
func newExportCmd() *cobra.Command {
	var (
		outDir string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "export DOCUMENT",
		Short: "Export a document as a PDF file",
		Long: `Export builds a PDF from the document's pages, in page order, and
moves it to the chosen destination. A page that cannot be decoded is
omitted; a partial PDF is preferred over no PDF. If the hand-off fails,
the temporary file is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := a.resolveDocument(ctx, args[0])
			if err != nil {
				return err
			}

			u := newUI()

			// Locked documents require authentication before their
			// content leaves the store.
			gate := lock.NewGate(newTerminalAuthenticator(u))
			if err := gate.Unlock(ctx, doc, fmt.Sprintf("export %q", doc.Title)); err != nil {
				return err
			}

			pages, err := a.repo.Pages(ctx, doc.ID)
			if err != nil {
				return err
			}

			exporter := export.NewExporter(a.logger, a.cfg.Export.TempDir)

			stop := u.Spinner("Building PDF...")
			handle, err := exporter.Export(doc, pages)
			stop()
			if err != nil {
				return err
			}

			if verify || a.cfg.Export.Verify {
				if err := export.Verify(handle); err != nil {
					handle.Cleanup()
					return err
				}
			}

			if len(handle.SkippedPages) > 0 {
				u.Warning("%d pages could not be decoded and were omitted", len(handle.SkippedPages))
			}

			// Hand-off: move the file to the destination. On failure the
			// temp file is deleted; on success only the empty temp dir
			// remains to clean up.
			dest := filepath.Join(outDir, filepath.Base(handle.Path))
			if err := moveFile(handle.Path, dest); err != nil {
				handle.Cleanup()
				return fmt.Errorf("hand off exported PDF: %w", err)
			}
			handle.Cleanup()

			u.Success("Exported %q (%d pages) to %s", doc.Title, handle.PageCount, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "destination directory")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-open the PDF and verify its page count before hand-off")

	return cmd
}

// moveFile renames src to dest, copying across filesystems when rename
// is not possible.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
