package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/scandesk/scandesk/internal/capture"
)

// newScanCmd creates the scan subcommand.
func newScanCmd() *cobra.Command {
	var (
		title string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Capture the page images in DIR as a new document",
		Long: `Scan runs one capture session over a directory of page images
(.jpg/.jpeg/.png, ordered by file name), encodes every page, asks for a
document name, and stores the result in the library. If any page fails to
encode the whole session is voided; a truncated document is never created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			u := newUI()

			assembler := capture.NewAssembler(a.logger, a.repo, capture.Config{
				Quality:              a.cfg.Capture.Quality,
				MaxConcurrentEncodes: a.cfg.Capture.MaxConcurrentEncodes,
				DefaultTitle:         a.cfg.Capture.DefaultTitle,
			})

			stop := u.Spinner("Capturing and encoding pages...")
			err = assembler.Begin(ctx, capture.NewDirectorySource(args[0]))
			stop()
			if err != nil {
				if errors.Is(err, capture.ErrCancelled) {
					u.Warning("Capture cancelled, nothing saved")
					return nil
				}
				return err
			}

			// The session waits for a name before committing. An empty
			// answer keeps the default title.
			name := title
			if name == "" && !yes {
				if answer, ok := u.Prompt("Document name (empty for default)"); ok {
					name = answer
				}
			}

			result, err := assembler.Commit(ctx, name)
			if err != nil {
				return err
			}

			u.Success("Saved %q with %d pages (id %s)",
				result.Document.Title, result.PageCount, result.Document.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "document name (skips the prompt)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the default name without prompting")

	return cmd
}
