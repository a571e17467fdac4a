// Package version reports build metadata for progstore.
//
// Values come from, in order of preference:
//   - Version, Commit and Date set at link time with -ldflags -X
//   - VCS settings recorded by the Go toolchain (debug.ReadBuildInfo)
//   - development defaults
package version
