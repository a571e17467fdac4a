// Package store is the persistence layer behind the program hosting service.
//
// It turns submitted source content into stable, URL-safe identifiers, lays
// those identifiers out on disk in bounded-fanout shard directories, and
// maintains small link files so that short deploy and share handles can point
// at immutable content-addressed artifacts.
//
// Layout:
//
//	<root>/<mode>/{user,build,share,projects,deploy}/<3-char-shard>/<id>[.<ext>]
//	<root>/base/<version>/base.{js,symbs}
//
// Key Components:
//
// Identifiers:
//   - ProgramID, ProjectID, DirID, DeployID and ShareID are distinct types
//   - Each is a one character tag followed by an unpadded base64url digest
//   - The digest comes from a pluggable Hasher (MD5 by default)
//
// Paths:
//   - Shard is the first three characters of an identifier
//   - Every family has its own root under each BuildMode
//
// Links and projects:
//   - Link files hold the raw text of a target identifier or path
//   - Per-user project trees hold projects addressed by hashed names
//   - Directory markers (dir.info) hold display names
//
// Maintenance:
//   - Whole-subtree checksums for build staleness detection
//   - One-shot migration of legacy flat user trees into shards
//
// Nothing in this package takes a lock. Content-addressed writes are idempotent
// and directory creation tolerates concurrent creators; callers that need
// read-after-write ordering across processes must arrange it themselves.
package store
