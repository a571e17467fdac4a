package cmd

import (
	"fmt"

	"github.com/dendrascience/progstore/store"
	"github.com/spf13/cobra"
)

// NewShareCmd creates a share handle for a user folder.
func NewShareCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "share USER [FOLDER...]",
		Short: "Share a user folder",
		Long: `Fingerprint a folder of a user's project tree and link a share handle to it.

FOLDER is the chain of folder display names from the user root, for example
"share alice Homework Week1". Sharing unchanged content returns the same handle.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			rel := sess.store.DirRelPath(args[1:]...)
			id, err := sess.store.ShareFolder(sess.mode, store.UserID(args[0]), rel)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

// NewChecksumCmd prints the content fingerprint of a directory.
func NewChecksumCmd(flags *globalFlags) *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:   "checksum DIR",
		Short: "Fingerprint a directory",
		Long: `Compute the content fingerprint of every regular file below DIR.

With --against, report whether DIR still matches a previously recorded fingerprint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if against != "" {
				stale, err := sess.store.IsStale(args[0], store.Checksum(against))
				if err != nil {
					return err
				}
				if stale {
					fmt.Fprintln(out, "stale")
				} else {
					fmt.Fprintln(out, "current")
				}
				return nil
			}
			sum, err := sess.store.Checksum(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "Recorded fingerprint to compare with")

	return cmd
}
