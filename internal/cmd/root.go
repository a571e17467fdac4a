package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dendrascience/progstore/internal/config"
	"github.com/dendrascience/progstore/store"
	"github.com/dendrascience/progstore/version"
	"github.com/spf13/cobra"
)

const (
	groupStore       = "store"
	groupMaintenance = "maintenance"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	root       string
	mode       string
	verbose    bool
}

// NewRootCmd creates and returns the root cobra command for the progstore CLI.
// It sets up all subcommands, command groups, and the shared store flags.
func NewRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "progstore",
		Short: "progstore - content-addressed storage for programs, projects, and deploy links",
		Long: `progstore manages the on-disk store behind an online programming environment.

Sources and build outputs are addressed by hashes of their content, user projects
live in hashed and sharded directory trees, and deploy and share handles are small
link files pointing at stored programs and folders.

Use subcommands to perform different operations:
  - id, save, deploy, resolve, paths: work with stored programs
  - share, import, checksum, ls, tree, cat, rm: work with user project trees
  - migrate, stats, validate, seed, mount: maintain and inspect a store`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file (default $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", "", "Override the store root directory")
	rootCmd.PersistentFlags().StringVarP(&flags.mode, "mode", "m", "", "Build mode to operate on (default: first configured mode)")
	rootCmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupStore,
		Title: "Store Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupMaintenance,
		Title: "Maintenance",
	})

	for _, c := range []*cobra.Command{
		NewIDCmd(&flags),
		NewSaveCmd(&flags),
		NewDeployCmd(&flags),
		NewResolveCmd(&flags),
		NewPathsCmd(&flags),
		NewShareCmd(&flags),
		NewChecksumCmd(&flags),
		NewLsCmd(&flags),
		NewTreeCmd(&flags),
		NewCatCmd(&flags),
		NewRmCmd(&flags),
		NewImportCmd(&flags),
	} {
		c.GroupID = groupStore
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewMigrateCmd(&flags),
		NewStatsCmd(&flags),
		NewValidateCmd(&flags),
		NewSeedCmd(&flags),
		NewMountCmd(&flags),
	} {
		c.GroupID = groupMaintenance
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// session is an opened store plus the build mode a command acts on.
type session struct {
	cfg   *config.Config
	store *store.Store
	mode  store.BuildMode
	log   *slog.Logger
}

// open loads configuration, applies flag overrides and opens the store.
func (f *globalFlags) open() (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if f.root != "" {
		cfg.Root = f.root
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := cfg.Store(logger)
	if err != nil {
		return nil, err
	}
	name := f.mode
	if name == "" {
		name = cfg.DefaultMode()
	}
	mode, err := s.Mode(name)
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", name, err)
	}
	return &session{cfg: cfg, store: s, mode: mode, log: logger}, nil
}
