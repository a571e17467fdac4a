package store

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveSource stores src under its content-derived ProgramID. The source file
// is written only when it does not already hold src; identical content always
// lands on the same path, so repeated and concurrent saves are equivalent.
func (s *Store) SaveSource(mode BuildMode, src []byte) (ProgramID, error) {
	id := s.ProgramID(src)
	p := s.Paths(mode, id)
	if err := EnsureDir(filepath.Dir(p.Source), true); err != nil {
		return "", err
	}
	written, err := writeContentFile(p.Source, src)
	if err != nil {
		return "", err
	}
	if written {
		s.log.Debug("saved source", "mode", mode, "program", id)
	}
	return id, nil
}

// EnsureBuildDir creates the build shard directory of id so the compiler can
// write its outputs.
func (s *Store) EnsureBuildDir(mode BuildMode, id ProgramID) error {
	return EnsureDir(filepath.Dir(s.Paths(mode, id).Target), true)
}

// RemoveBuildOutputs deletes every compiler output of id, forcing a rebuild.
// Missing outputs are ignored.
func (s *Store) RemoveBuildOutputs(mode BuildMode, id ProgramID) error {
	p := s.Paths(mode, id)
	for _, path := range p.BuildOutputs() {
		if err := RemoveFileIfMissingOk(path); err != nil {
			return err
		}
	}
	return RemoveDirIfMissingOk(p.TargetBase + ".jsexe")
}

// Deploy saves src and mints a fresh deploy handle for it. Every call yields
// a new handle, all resolving to the same ProgramID.
func (s *Store) Deploy(mode BuildMode, src []byte) (DeployID, ProgramID, error) {
	pid, err := s.SaveSource(mode, src)
	if err != nil {
		return "", "", err
	}
	did := s.DeployID(uuid.NewString(), src)
	if err := s.WriteDeployLink(mode, did, pid); err != nil {
		return "", "", err
	}
	s.log.Info("deployed program", "mode", mode, "deploy", did, "program", pid)
	return did, pid, nil
}

// ShareFolder fingerprints a user folder and links a share handle to it.
// Sharing unchanged content again returns the same handle.
func (s *Store) ShareFolder(mode BuildMode, user UserID, relPath string) (ShareID, error) {
	dir, err := s.UserPath(mode, user, relPath)
	if err != nil {
		return "", err
	}
	sum, err := s.Checksum(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(s.FamilyRoot(FamilyProjects, mode), dir)
	if err != nil {
		return "", err
	}
	id := ShareIDFromChecksum(sum)
	if err := s.WriteShareLink(mode, id, rel); err != nil {
		return "", err
	}
	return id, nil
}

// SharedFolder returns the absolute folder a share handle points at.
func (s *Store) SharedFolder(mode BuildMode, id ShareID) (string, error) {
	rel, err := s.ResolveShare(mode, id)
	if err != nil {
		return "", err
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: share %s -> %q", ErrInvalidPath, id, rel)
	}
	return filepath.Join(s.FamilyRoot(FamilyProjects, mode), rel), nil
}

// ImportShare copies a shared folder into relPath of the user tree as a
// directory called name. Importing into the shared folder itself, or anywhere
// below it, is ErrInvalidPath. A failed copy leaves no partial directory.
func (s *Store) ImportShare(mode BuildMode, id ShareID, user UserID, relPath, name string) (DirID, error) {
	src, err := s.SharedFolder(mode, id)
	if err != nil {
		return "", err
	}
	dirID := s.DirID(name)
	dst, err := s.DirPath(mode, user, relPath, dirID)
	if err != nil {
		return "", err
	}
	if isWithin(src, dst) {
		return "", fmt.Errorf("%w: cannot import share %s into itself", ErrInvalidPath, id)
	}
	if _, err := s.WriteDirMarker(mode, user, relPath, name); err != nil {
		return "", err
	}
	if err := CopyDirIfExists(src, dst); err != nil {
		if rmErr := RemoveDirIfMissingOk(dst); rmErr != nil {
			s.log.Warn("removing partial import", "path", dst, "error", rmErr)
		}
		return "", err
	}
	// The copied tree may carry the source folder's own marker.
	_, err = s.WriteDirMarker(mode, user, relPath, name)
	return dirID, err
}
