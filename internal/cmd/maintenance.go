package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dendrascience/progstore/store"
	"github.com/spf13/cobra"
)

// NewMigrateCmd moves a user's flat legacy project files into shard
// directories.
func NewMigrateCmd(flags *globalFlags) *cobra.Command {
	var suffix string

	cmd := &cobra.Command{
		Use:   "migrate USER",
		Short: "Move a user's legacy flat project files into shards",
		Long: `Move every file directly under a user's project root whose name ends in the
legacy suffix into the shard directory named by its first three characters.

Already migrated users are left untouched. Do not run two migrations of the
same user at the same time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			if suffix == "" {
				suffix = sess.cfg.LegacySuffix
			}
			moved, err := sess.store.MigrateUser(sess.mode, store.UserID(args[0]), suffix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %d entries\n", moved)
			return nil
		},
	}

	cmd.Flags().StringVar(&suffix, "suffix", "", "Legacy file suffix (default from config)")

	return cmd
}

// familyStats pairs a family with its fanout for reporting.
type familyStats struct {
	Family store.Family `json:"family"`
	store.Fanout
}

// NewStatsCmd reports the shard fanout of every family in a mode.
func NewStatsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show shard fanout per artifact family",
		Long: `Count the shard directories and entries of every artifact family in the
selected build mode, and report the fullest shard of each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			var all []familyStats
			for _, f := range store.Families {
				fo, err := sess.store.FanoutOf(f, sess.mode)
				if err != nil {
					return err
				}
				all = append(all, familyStats{Family: f, Fanout: fo})
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			fmt.Fprintf(out, "Mode: %s\n", sess.mode)
			for _, st := range all {
				fmt.Fprintf(out, "  %-9s shards=%d entries=%d", st.Family, st.Shards, st.Entries)
				if st.MaxShard != "" {
					fmt.Fprintf(out, " fullest=%s (%d)", st.MaxShard, st.MaxEntries)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	return cmd
}

// NewValidateCmd checks that deploy links resolve to stored sources.
func NewValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every deploy handle resolves",
		Long: `Walk the deploy links of the selected build mode and report links that are
misplaced, unreadable, malformed or point at a missing program source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			checked, problems, err := sess.store.ValidateDeployLinks(sess.mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "  - %s: %s\n", p.Path, p.Reason)
			}
			fmt.Fprintf(out, "\nValidation complete:\n")
			fmt.Fprintf(out, "  Links checked: %d\n", checked)
			fmt.Fprintf(out, "  Problems: %d\n", len(problems))
			if len(problems) > 0 {
				return fmt.Errorf("%d broken deploy links", len(problems))
			}
			return nil
		},
	}
}
