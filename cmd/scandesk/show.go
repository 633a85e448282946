package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scandesk/scandesk/internal/lock"
)

// newShowCmd creates the show subcommand.
func newShowCmd() *cobra.Command {
	var pagesDir string

	cmd := &cobra.Command{
		Use:   "show DOCUMENT",
		Short: "Show a document's details and optionally dump its pages",
		Long: `Show prints a document's metadata. A locked document requires
authentication before its page content can be written out; the unlock
holds only for this invocation.`,
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

			lockState := "unlocked"
			if doc.Locked {
				lockState = "locked"
			}
			fmt.Printf("ID:       %s\n", doc.ID)
			fmt.Printf("Title:    %s\n", doc.Title)
			fmt.Printf("Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Pages:    %d\n", doc.PageCount)
			fmt.Printf("Lock:     %s\n", lockState)

			if pagesDir == "" {
				return nil
			}

			// Page content is behind the view gate.
			u := newUI()
			gate := lock.NewGate(newTerminalAuthenticator(u))
			if err := gate.Unlock(ctx, doc, fmt.Sprintf("view pages of %q", doc.Title)); err != nil {
				return err
			}

			pages, err := a.repo.Pages(ctx, doc.ID)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(pagesDir, 0o755); err != nil {
				return fmt.Errorf("create pages directory: %w", err)
			}

			bar := u.ProgressBar(len(pages), "Writing pages")
			for _, page := range pages {
				path := filepath.Join(pagesDir, fmt.Sprintf("page_%03d.jpg", page.Index))
				if err := os.WriteFile(path, page.Content, 0o644); err != nil {
					return fmt.Errorf("write page %d: %w", page.Index, err)
				}
				bar.Add(1)
			}

			u.Success("Wrote %d pages to %s", len(pages), pagesDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&pagesDir, "pages", "", "write page images into this directory")

	return cmd
}
