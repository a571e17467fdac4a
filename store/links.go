package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteLink stores target as the raw content of the link file for linkID in
// family f. The shard directory is created if needed and an existing link is
// overwritten.
func (s *Store) WriteLink(f Family, mode BuildMode, linkID, target string) error {
	path := s.Path(f, mode, linkID)
	if err := EnsureDir(filepath.Dir(path), true); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(target), filePerm)
}

// ResolveLink returns the content of the link file for linkID. A missing
// link yields ErrNotFound; other read failures are returned unchanged.
func (s *Store) ResolveLink(f Family, mode BuildMode, linkID string) (string, error) {
	data, err := os.ReadFile(s.Path(f, mode, linkID))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s link %s: %w", f, linkID, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteDeployLink points a deploy handle at a program.
func (s *Store) WriteDeployLink(mode BuildMode, id DeployID, target ProgramID) error {
	return s.WriteLink(FamilyDeploy, mode, string(id), string(target))
}

// ResolveDeploy returns the program a deploy handle points at.
func (s *Store) ResolveDeploy(mode BuildMode, id DeployID) (ProgramID, error) {
	target, err := s.ResolveLink(FamilyDeploy, mode, string(id))
	if err != nil {
		return "", err
	}
	return ParseProgramID(target)
}

// WriteShareLink points a share handle at a folder path relative to the
// project root of the mode.
func (s *Store) WriteShareLink(mode BuildMode, id ShareID, folder string) error {
	return s.WriteLink(FamilyShare, mode, string(id), filepath.ToSlash(folder))
}

// ResolveShare returns the shared folder path, relative to the project root
// of the mode.
func (s *Store) ResolveShare(mode BuildMode, id ShareID) (string, error) {
	return s.ResolveLink(FamilyShare, mode, string(id))
}
