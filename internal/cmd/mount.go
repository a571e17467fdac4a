package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/progstore/storefs"
	"github.com/dendrascience/progstore/version"
	"github.com/spf13/cobra"
)

// NewMountCmd creates and returns the mount subcommand for the progstore CLI.
// It serves a read-only FUSE view of one build mode.
func NewMountCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount a read-only view of a build mode",
		Long: `Mount a read-only FUSE view of the selected build mode at MOUNTPOINT.

The view contains programs/ with every stored source, deploy/ with every deploy
handle reading as its linked source, and share/ with every shared folder.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(flags, args[0])
		},
	}
}

func runMount(flags *globalFlags, mountpoint string) {
	fmt.Printf("progstore %s starting...\n", version.GetFullVersion())

	sess, err := flags.open()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	root := sess.store.Root()
	if pathsOverlap(root, mountpoint) {
		log.Fatalf("Mountpoint %s overlaps store root %s", mountpoint, root)
	}

	filesystem := storefs.NewFS(sess.store, sess.mode)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("progstore"),
		fuse.Subtype("progstore"),
		fuse.ReadOnly(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		fuse.Unmount(mountpoint)
		c.Close()
		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("progstore %s mounted at %s (root: %s, mode: %s)", version.GetVersion(), mountpoint, root, sess.mode)
	if err := fs.Serve(c, filesystem); err != nil {
		log.Fatal(err)
	}
}

// pathsOverlap reports whether one path is the other or contains it.
func pathsOverlap(a, b string) bool {
	a, errA := filepath.Abs(a)
	b, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	within := func(parent, child string) bool {
		rel, err := filepath.Rel(parent, child)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
	return within(a, b) || within(b, a)
}
