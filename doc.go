// Package main provides the progstore command-line interface.
//
// progstore manages the content-addressed store behind an online programming
// environment: program sources and their build outputs keyed by hashes of the
// source, per-user project trees with hashed and sharded directories, and
// deploy and share handles stored as small link files.
//
// The main binary supports multiple subcommands:
//   - save, deploy, resolve: store programs and follow handles
//   - share, checksum: share folders and fingerprint their content
//   - ls, tree: browse user project trees
//   - migrate, stats, validate, seed: maintain a store
//   - mount: serve a read-only FUSE view of a build mode
package main
