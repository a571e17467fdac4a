// Package storefs exposes one build mode of a progstore tree as a read-only
// FUSE filesystem.
//
// The mounted view has three top-level directories:
//   - programs/: every stored source as <ProgramID>.src
//   - deploy/: every deploy handle, reading as the linked program source
//   - share/: every share handle, as a read-only copy of the shared folder
//
// Handles are resolved on lookup, so the view always reflects the link files
// currently on disk. Writes are rejected with EPERM.
//
// The main entry point is NewFS() which can be served with
// bazil.org/fuse/fs.Serve.
package storefs
