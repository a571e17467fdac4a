package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/progstore/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// NewSeedCmd creates and returns the seed subcommand for the progstore CLI.
// It populates a store with generated users, folders, projects and deploys.
func NewSeedCmd(flags *globalFlags) *cobra.Command {
	var (
		users    int
		projects int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate a store with generated users and projects",
		Long: `Generate test content for exercising a store.

Each generated user is assigned to one of the configured build modes by hashing
its name, gets a few week folders, and a number of projects spread across them.
Every project source is also saved and deployed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			return runSeed(sess.store, users, projects, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&users, "users", "u", 10, "Number of users to generate")
	cmd.Flags().IntVarP(&projects, "projects", "p", 5, "Projects per user")

	return cmd
}

// seedMode spreads users over the configured modes by name.
func seedMode(modes []store.BuildMode, user store.UserID) store.BuildMode {
	bucket := int(colorhash.HashString(string(user)) % 1000)
	if bucket < 0 {
		bucket = -bucket
	}
	return modes[bucket%len(modes)]
}

func runSeed(s *store.Store, users, projects int, out io.Writer) error {
	modes := s.Modes()
	if len(modes) == 0 {
		return fmt.Errorf("no build modes configured")
	}
	perMode := make(map[store.BuildMode]int)
	deploys := 0

	for i := 0; i < users; i++ {
		user := store.UserID("seed-" + uuid.NewString()[:8])
		mode := seedMode(modes, user)
		if err := s.EnsureUserRoot(mode, user); err != nil {
			return err
		}
		for j := 0; j < projects; j++ {
			folder := fmt.Sprintf("Week%d", j%3+1)
			if _, err := s.WriteDirMarker(mode, user, "", folder); err != nil {
				return err
			}
			src := fmt.Sprintf("-- %s\nmain = drawingOf(circle(%d))\n", uuid.NewString(), j+1)
			p := store.Project{Name: fmt.Sprintf("Project%d", j+1), Source: src}
			if _, err := s.WriteProject(mode, user, s.DirRelPath(folder), p); err != nil {
				return err
			}
			if _, _, err := s.Deploy(mode, []byte(src)); err != nil {
				return err
			}
			deploys++
		}
		perMode[mode]++
	}

	fmt.Fprintf(out, "Created %d users with %d projects each (%d deploys)\n", users, projects, deploys)
	for _, m := range modes {
		fmt.Fprintf(out, "  %s: %d users\n", m, perMode[m])
	}
	return nil
}
