package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dendrascience/progstore/store"
	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"
)

// NewLsCmd lists one folder of a user's project tree.
func NewLsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ls USER [FOLDER...]",
		Short: "List a folder of a user's project tree",
		Long: `List the folders and projects of a user's project tree by display name.

FOLDER is the chain of folder display names from the user root. Folders are
printed with a trailing slash.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			l, err := sess.store.ListDirectory(sess.mode, store.UserID(args[0]), sess.store.DirRelPath(args[1:]...))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range l.Dirs {
				fmt.Fprintf(out, "%s/\n", d)
			}
			for _, p := range l.Projects {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}

// NewTreeCmd renders a user's whole project tree.
func NewTreeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree USER",
		Short: "Show a user's project tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			rendered, err := renderUserTree(sess.store, sess.mode, store.UserID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

// renderUserTree draws the folders and projects of user, by display name.
func renderUserTree(s *store.Store, mode store.BuildMode, user store.UserID) (string, error) {
	root := gotree.New(string(user))
	if err := addTreeLevel(s, mode, user, "", root); err != nil {
		return "", err
	}
	return root.Print(), nil
}

func addTreeLevel(s *store.Store, mode store.BuildMode, user store.UserID, rel string, node gotree.Tree) error {
	l, err := s.ListDirectory(mode, user, rel)
	if err != nil {
		return err
	}
	for _, d := range l.Dirs {
		child := node.Add(d + "/")
		if err := addTreeLevel(s, mode, user, filepath.Join(rel, s.DirRelPath(d)), child); err != nil {
			return err
		}
	}
	for _, p := range l.Projects {
		node.Add(p)
	}
	return nil
}

// NewCatCmd prints the source of a stored project.
func NewCatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cat USER [FOLDER...] PROJECT",
		Short: "Print the source of a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			last := len(args) - 1
			p, err := sess.store.ReadProject(sess.mode, store.UserID(args[0]), sess.store.DirRelPath(args[1:last]...), args[last])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p.Source)
			return nil
		},
	}
}

// NewRmCmd deletes a project, or with --dir a whole folder.
func NewRmCmd(flags *globalFlags) *cobra.Command {
	var dir bool

	cmd := &cobra.Command{
		Use:   "rm USER [FOLDER...] NAME",
		Short: "Delete a project or folder",
		Long: `Delete the project called NAME from a user's folder. With --dir, delete the
folder called NAME and everything below it. Deleting something that does not
exist succeeds.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			last := len(args) - 1
			user := store.UserID(args[0])
			rel := sess.store.DirRelPath(args[1:last]...)
			if dir {
				return sess.store.RemoveDir(sess.mode, user, rel, args[last])
			}
			return sess.store.RemoveProject(sess.mode, user, rel, args[last])
		},
	}

	cmd.Flags().BoolVar(&dir, "dir", false, "Delete a folder instead of a project")

	return cmd
}

// NewImportCmd copies a shared folder into a user's tree.
func NewImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import SHARE_ID USER NAME [FOLDER...]",
		Short: "Copy a shared folder into a user's tree",
		Long: `Copy the folder behind a share handle into a user's project tree as a new
folder called NAME, inside the optional FOLDER chain.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			id, err := store.ParseShareID(args[0])
			if err != nil {
				return err
			}
			user := store.UserID(args[1])
			rel := sess.store.DirRelPath(args[3:]...)
			if err := sess.store.EnsureSubdir(sess.mode, user, rel); err != nil {
				return err
			}
			dirID, err := sess.store.ImportShare(sess.mode, id, user, rel, args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dirID)
			return nil
		},
	}
}
