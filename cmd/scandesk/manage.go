package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newRenameCmd creates the rename subcommand.
func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename DOCUMENT NEW_TITLE",
		Short: "Rename a document",
		Args:  cobra.ExactArgs(2),
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

			if err := a.repo.Rename(ctx, doc.ID, args[1]); err != nil {
				return err
			}

			newUI().Success("Renamed %q to %q", doc.Title, args[1])
			return nil
		},
	}
}

// newLockCmd creates the lock subcommand.
func newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock DOCUMENT",
		Short: "Lock a document behind authentication",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return setLock(args[0], true) },
	}
}

// newUnlockCmd creates the unlock subcommand.
func newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock DOCUMENT",
		Short: "Remove a document's lock",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return setLock(args[0], false) },
	}
}

// setLock toggles the document's advisory lock toward the wanted state.
func setLock(ref string, want bool) error {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	doc, err := a.resolveDocument(ctx, ref)
	if err != nil {
		return err
	}

	u := newUI()
	if doc.Locked == want {
		u.Warning("%q is already %s", doc.Title, lockWord(want))
		return nil
	}

	locked, err := a.repo.ToggleLock(ctx, doc.ID)
	if err != nil {
		return err
	}

	u.Success("%q is now %s", doc.Title, lockWord(locked))
	return nil
}

func lockWord(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

// newDeleteCmd creates the delete subcommand.
func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete DOCUMENT",
		Short: "Delete a document and all its pages",
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
			if !force && !u.Confirm(fmt.Sprintf("Delete %q (%d pages)?", doc.Title, doc.PageCount)) {
				u.Warning("Nothing deleted")
				return nil
			}

			if err := a.repo.Delete(ctx, doc.ID); err != nil {
				return err
			}

			u.Success("Deleted %q", doc.Title)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

// newPurgeCmd creates the purge subcommand.
func newPurgeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every document in the library",
		Long: `Purge removes all documents and their pages from the local store.

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			u := newUI()
			if !force && !u.Confirm("Delete the entire library?") {
				u.Warning("Nothing deleted")
				return nil
			}

			count, err := a.repo.DeleteAll(ctx)
			if err != nil {
				return err
			}

			u.Success("Deleted %d documents", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "purge without confirmation")

	return cmd
}
