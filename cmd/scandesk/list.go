package main

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scandesk/scandesk/internal/imaging"
)

// newListCmd creates the list subcommand.
func newListCmd() *cobra.Command {
	var thumbnailDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			docs, err := a.repo.List(ctx)
			if err != nil {
				return err
			}

			if len(docs) == 0 {
				fmt.Println("The library is empty. Run `scandesk scan` to add a document.")
				return nil
			}

			for _, doc := range docs {
				lockMark := " "
				if doc.Locked {
					lockMark = "🔒"
				}
				fmt.Printf("%s  %-36s  %-30q  %2d pages  %s\n",
					lockMark, doc.ID, doc.Title, doc.PageCount,
					doc.CreatedAt.Format("2006-01-02 15:04"))
			}

			if thumbnailDir != "" {
				return writeThumbnails(ctx, a, thumbnailDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&thumbnailDir, "thumbnails", "", "write first-page thumbnails into this directory")

	return cmd
}

// writeThumbnails renders each document's first page, reduced to the
// configured box, as <id>.jpg in dir. Undecodable first pages are skipped.
func writeThumbnails(ctx context.Context, a *app, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail directory: %w", err)
	}

	docs, err := a.repo.List(ctx)
	if err != nil {
		return err
	}

	codec := imaging.NewCodec()
	box := imaging.Box{Width: a.cfg.Thumbnail.Width, Height: a.cfg.Thumbnail.Height}
	u := newUI()

	for _, doc := range docs {
		pages, err := a.repo.Pages(ctx, doc.ID)
		if err != nil || len(pages) == 0 {
			continue
		}

		img, err := codec.Decode(pages[0].Content)
		if err != nil {
			u.Warning("Skipping thumbnail for %q: first page unavailable", doc.Title)
			continue
		}

		reduced := imaging.Reduce(img, box)

		path := filepath.Join(dir, doc.ID.String()+".jpg")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create thumbnail file: %w", err)
		}
		err = jpeg.Encode(f, reduced, &jpeg.Options{Quality: 85})
		f.Close()
		if err != nil {
			return fmt.Errorf("write thumbnail for %s: %w", doc.ID, err)
		}
	}

	u.Success("Thumbnails written to %s", dir)
	return nil
}
