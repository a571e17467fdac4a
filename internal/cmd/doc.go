// Package cmd provides the command-line interface implementation for progstore.
//
// This package contains all the subcommand implementations for the progstore CLI tool.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, shared flags and store opening
//   - id, save, deploy, resolve, paths: program identifiers and artifacts
//   - share, checksum: folder sharing and fingerprints
//   - ls, tree, cat, rm, import: browsing and editing user project trees
//   - migrate, stats, validate, seed: store maintenance
//   - mount: read-only FUSE view of a build mode
//
// Each command is implemented with its own constructor function that returns a
// *cobra.Command. Commands load configuration through the config package and
// operate on a store.Store.
package cmd
