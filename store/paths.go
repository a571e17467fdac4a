package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Family names an artifact family. Each family has its own root directory
// under every BuildMode.
type Family string

const (
	FamilySource   Family = "user"
	FamilyBuild    Family = "build"
	FamilyShare    Family = "share"
	FamilyProjects Family = "projects"
	FamilyDeploy   Family = "deploy"
)

// Families lists every family in layout order.
var Families = []Family{FamilySource, FamilyBuild, FamilyShare, FamilyProjects, FamilyDeploy}

// Artifact extensions. One ProgramID addresses the whole bundle.
const (
	ExtSource      = ".src"
	ExtSourceXML   = ".xml"
	ExtTarget      = ".js"
	ExtDiagnostics = ".err.txt"
	ExtBaseVersion = ".basever"
	ExtProject     = ".cw"
)

// AuxiliaryExts are the compiler side outputs sharing the target base path.
var AuxiliaryExts = []string{
	".js_hi",
	".js_o",
	".jsexe/index.html",
	".jsexe/lib.js",
	".jsexe/manifest.webapp",
	".jsexe/out.js",
	".jsexe/out.stats",
	".jsexe/rts.js",
	".jsexe/runmain.js",
}

// DirMarker is the file inside a hashed directory holding its display name.
const DirMarker = "dir.info"

// UserID is an externally owned user handle.
type UserID string

// FamilyRoot returns <root>/<mode>/<family>.
func (s *Store) FamilyRoot(f Family, mode BuildMode) string {
	return filepath.Join(s.root, string(mode), string(f))
}

// ShardDir returns the shard directory that holds name within a family.
func (s *Store) ShardDir(f Family, mode BuildMode, name string) string {
	return filepath.Join(s.FamilyRoot(f, mode), shardOf(name))
}

// Path returns <root>/<mode>/<family>/<shard>/<name>. The shard is taken
// from name, so name must begin with the identifier text.
func (s *Store) Path(f Family, mode BuildMode, name string) string {
	return filepath.Join(s.ShardDir(f, mode, name), name)
}

// ProgramPaths is every path addressed by one ProgramID.
type ProgramPaths struct {
	ID          ProgramID
	Source      string
	SourceXML   string
	Target      string
	Diagnostics string
	BaseVersion string
	// TargetBase is the build path without extension.
	TargetBase string
}

// Auxiliary returns the compiler side output paths.
func (p ProgramPaths) Auxiliary() []string {
	out := make([]string, len(AuxiliaryExts))
	for i, ext := range AuxiliaryExts {
		out[i] = p.TargetBase + ext
	}
	return out
}

// BuildOutputs returns every path under the build root, auxiliary included.
func (p ProgramPaths) BuildOutputs() []string {
	return append([]string{p.Target, p.Diagnostics, p.BaseVersion}, p.Auxiliary()...)
}

// Paths returns the path bundle for id under mode.
func (s *Store) Paths(mode BuildMode, id ProgramID) ProgramPaths {
	src := s.Path(FamilySource, mode, string(id))
	build := s.Path(FamilyBuild, mode, string(id))
	return ProgramPaths{
		ID:          id,
		Source:      src + ExtSource,
		SourceXML:   src + ExtSourceXML,
		Target:      build + ExtTarget,
		Diagnostics: build + ExtDiagnostics,
		BaseVersion: build + ExtBaseVersion,
		TargetBase:  build,
	}
}

// BasePaths returns the shared base library files for a version.
func (s *Store) BasePaths(version string) (code, symbols string) {
	dir := filepath.Join(s.root, "base", version)
	return filepath.Join(dir, "base.js"), filepath.Join(dir, "base.symbs")
}

// DeployLinkPath returns the link file for a deploy handle.
func (s *Store) DeployLinkPath(mode BuildMode, id DeployID) string {
	return s.Path(FamilyDeploy, mode, string(id))
}

// ShareLinkPath returns the link file for a share handle.
func (s *Store) ShareLinkPath(mode BuildMode, id ShareID) string {
	return s.Path(FamilyShare, mode, string(id))
}

// UserRoot returns the project tree root of a user.
func (s *Store) UserRoot(mode BuildMode, user UserID) (string, error) {
	u := string(user)
	if u == "" || strings.ContainsAny(u, `/\`) || !filepath.IsLocal(u) {
		return "", fmt.Errorf("%w: user %q", ErrInvalidPath, u)
	}
	return filepath.Join(s.FamilyRoot(FamilyProjects, mode), u), nil
}

// UserPath joins relPath onto the user root. relPath must stay inside it.
func (s *Store) UserPath(mode BuildMode, user UserID, relPath string) (string, error) {
	root, err := s.UserRoot(mode, user)
	if err != nil {
		return "", err
	}
	if relPath == "" || relPath == "." {
		return root, nil
	}
	rel := filepath.FromSlash(relPath)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	return filepath.Join(root, rel), nil
}

// DirRelPath converts a chain of directory display names into the hashed
// relative path used on disk, e.g. ["hw", "week1"] -> "Dxx/Dxx.../Dyy/Dyy...".
func (s *Store) DirRelPath(names ...string) string {
	parts := make([]string, 0, 2*len(names))
	for _, n := range names {
		id := s.DirID(n)
		parts = append(parts, Shard(id), string(id))
	}
	return filepath.Join(parts...)
}

// ProjectPath returns the project file of id inside the user directory
// relPath.
func (s *Store) ProjectPath(mode BuildMode, user UserID, relPath string, id ProjectID) (string, error) {
	dir, err := s.UserPath(mode, user, relPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Shard(id), string(id)+ExtProject), nil
}

// DirPath returns the hashed directory of id inside the user directory
// relPath.
func (s *Store) DirPath(mode BuildMode, user UserID, relPath string, id DirID) (string, error) {
	dir, err := s.UserPath(mode, user, relPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Shard(id), string(id)), nil
}
