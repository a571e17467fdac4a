package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dendrascience/progstore/store"
	"github.com/spf13/cobra"
)

// readSource reads a program source from a file, or from stdin for "-".
func readSource(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(arg)
}

// NewIDCmd prints the identifier a name or source would get, without
// touching the store.
func NewIDCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "id {program FILE | project NAME | dir NAME}",
		Short: "Compute the identifier of a program, project or directory",
		Long: `Compute the content-derived identifier of a program source, project name
or directory name, together with its shard.

For programs, FILE may be "-" to read the source from stdin.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"program", "project", "dir"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			s := sess.store
			var id string
			switch args[0] {
			case "program":
				src, err := readSource(cmd, args[1])
				if err != nil {
					return err
				}
				id = string(s.ProgramID(src))
			case "project":
				id = string(s.ProjectID(args[1]))
			case "dir":
				id = string(s.DirID(args[1]))
			default:
				return fmt.Errorf("unknown identifier kind %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, store.Shard(id))
			return nil
		},
	}
}

// NewSaveCmd stores a program source under its ProgramID.
func NewSaveCmd(flags *globalFlags) *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "save FILE",
		Short: "Store a program source",
		Long: `Store a program source under its content-derived ProgramID and prepare its
build directory. Saving the same source twice is a no-op.

With --clean, existing build outputs of the program are removed so the next
compile starts from scratch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			id, err := sess.store.SaveSource(sess.mode, src)
			if err != nil {
				return err
			}
			if clean {
				if err := sess.store.RemoveBuildOutputs(sess.mode, id); err != nil {
					return err
				}
			}
			if err := sess.store.EnsureBuildDir(sess.mode, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, sess.store.Paths(sess.mode, id).Source)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Remove existing build outputs")

	return cmd
}

// NewDeployCmd stores a source and issues a fresh deploy handle for it.
func NewDeployCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy FILE",
		Short: "Store a program and create a deploy handle for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			deployID, progID, err := sess.store.Deploy(sess.mode, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", deployID, progID)
			return nil
		},
	}
}

// NewResolveCmd follows a deploy or share handle.
func NewResolveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve HANDLE",
		Short: "Resolve a deploy or share handle",
		Long: `Resolve a deploy handle to the ProgramID it links to, or a share handle to
the folder it links to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if id, err := store.ParseShareID(args[0]); err == nil {
				folder, err := sess.store.SharedFolder(sess.mode, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, folder)
				return nil
			}
			id, err := store.ParseDeployID(args[0])
			if err != nil {
				return err
			}
			prog, err := sess.store.ResolveDeploy(sess.mode, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", prog, sess.store.Paths(sess.mode, prog).Source)
			return nil
		},
	}
}

// NewPathsCmd prints every on-disk path of a program's artifact bundle.
func NewPathsCmd(flags *globalFlags) *cobra.Command {
	var baseVersion string

	cmd := &cobra.Command{
		Use:   "paths PROGRAM_ID",
		Short: "Show the artifact paths of a program",
		Long: `Print the source, build output and auxiliary paths of a program, followed by
the base library paths it is linked against.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := flags.open()
			if err != nil {
				return err
			}
			id, err := store.ParseProgramID(args[0])
			if err != nil {
				return err
			}
			if baseVersion == "" {
				baseVersion = sess.cfg.BaseVersion
			}
			p := sess.store.Paths(sess.mode, id)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source\t%s\n", p.Source)
			fmt.Fprintf(out, "xml\t%s\n", p.SourceXML)
			fmt.Fprintf(out, "target\t%s\n", p.Target)
			fmt.Fprintf(out, "errors\t%s\n", p.Diagnostics)
			fmt.Fprintf(out, "basever\t%s\n", p.BaseVersion)
			for _, aux := range p.Auxiliary() {
				fmt.Fprintf(out, "aux\t%s\n", aux)
			}
			code, symbols := sess.store.BasePaths(baseVersion)
			fmt.Fprintf(out, "base\t%s\n", code)
			fmt.Fprintf(out, "symbols\t%s\n", symbols)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseVersion, "base", "", "Base library version (default from config)")

	return cmd
}
