package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Project is the stored form of a user project. The schema is owned by the
// editor; only Name is interpreted here.
type Project struct {
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	History json.RawMessage `json:"history,omitempty"`
}

// ProjectDecoder extracts a project display name from raw project file bytes.
type ProjectDecoder func(data []byte) (name string, err error)

// DecodeJSONProject decodes a JSON project file and returns its name.
func DecodeJSONProject(data []byte) (string, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if p.Name == "" {
		return "", fmt.Errorf("%w: missing name", ErrDecode)
	}
	return p.Name, nil
}

// EnsureUserRoot creates the project tree root of a user.
func (s *Store) EnsureUserRoot(mode BuildMode, user UserID) error {
	root, err := s.UserRoot(mode, user)
	if err != nil {
		return err
	}
	return EnsureDir(root, true)
}

// EnsureSubdir creates relPath and any missing parents under the user root.
func (s *Store) EnsureSubdir(mode BuildMode, user UserID, relPath string) error {
	dir, err := s.UserPath(mode, user, relPath)
	if err != nil {
		return err
	}
	return EnsureDir(dir, true)
}

// EnsureProjectParent creates the shard directory that will hold the project
// file of id, so a collaborator can write the file directly.
func (s *Store) EnsureProjectParent(mode BuildMode, user UserID, relPath string, id ProjectID) (string, error) {
	path, err := s.ProjectPath(mode, user, relPath, id)
	if err != nil {
		return "", err
	}
	return path, EnsureDir(filepath.Dir(path), true)
}

// WriteProject encodes p as JSON and stores it under its name-derived
// ProjectID, replacing any previous version.
func (s *Store) WriteProject(mode BuildMode, user UserID, relPath string, p Project) (ProjectID, error) {
	id := s.ProjectID(p.Name)
	path, err := s.EnsureProjectParent(mode, user, relPath, id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return id, os.WriteFile(path, data, filePerm)
}

// ReadProject loads the project called name.
func (s *Store) ReadProject(mode BuildMode, user UserID, relPath, name string) (Project, error) {
	var p Project
	path, err := s.ProjectPath(mode, user, relPath, s.ProjectID(name))
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, fmt.Errorf("project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("project %q: %w: %w", name, ErrDecode, err)
	}
	return p, nil
}

// RemoveProject deletes the project called name. A missing project is success.
func (s *Store) RemoveProject(mode BuildMode, user UserID, relPath, name string) error {
	path, err := s.ProjectPath(mode, user, relPath, s.ProjectID(name))
	if err != nil {
		return err
	}
	return RemoveFileIfMissingOk(path)
}

// WriteDirMarker creates the hashed directory for name inside relPath and
// records name in its dir.info marker.
func (s *Store) WriteDirMarker(mode BuildMode, user UserID, relPath, name string) (DirID, error) {
	id := s.DirID(name)
	dir, err := s.DirPath(mode, user, relPath, id)
	if err != nil {
		return "", err
	}
	if err := EnsureDir(dir, true); err != nil {
		return "", err
	}
	return id, os.WriteFile(filepath.Join(dir, DirMarker), []byte(name), filePerm)
}

// RemoveDir deletes the directory called name and everything under it.
// A missing directory is success.
func (s *Store) RemoveDir(mode BuildMode, user UserID, relPath, name string) error {
	dir, err := s.DirPath(mode, user, relPath, s.DirID(name))
	if err != nil {
		return err
	}
	return RemoveDirIfMissingOk(dir)
}

type shardEntry struct {
	path  string
	isDir bool
}

// shardEntries lists the entries of every shard directory in dir whose name
// starts with tag, in lexical order.
func shardEntries(dir string, tag byte) ([]shardEntry, error) {
	shards, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []shardEntry
	for _, sh := range shards {
		if !sh.IsDir() || len(sh.Name()) == 0 || sh.Name()[0] != tag {
			continue
		}
		shardPath := filepath.Join(dir, sh.Name())
		entries, err := os.ReadDir(shardPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			out = append(out, shardEntry{filepath.Join(shardPath, e.Name()), e.IsDir()})
		}
	}
	return out, nil
}

// ListProjectNames returns the names of the projects stored directly in dir.
// Project files that are missing or fail to decode are skipped.
func (s *Store) ListProjectNames(dir string) ([]string, error) {
	candidates, err := shardEntries(dir, TagProject)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, c := range candidates {
		if c.isDir {
			continue
		}
		data, err := os.ReadFile(c.path)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("skipping vanished project", "path", c.path)
			continue
		}
		if err != nil {
			return nil, err
		}
		name, err := s.decode(data)
		if err != nil {
			s.log.Debug("skipping undecodable project", "path", c.path, "error", err)
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ListDirNames returns the display names of the hashed directories stored
// directly in dir. Stray files in directory shards are skipped; a directory
// without its dir.info marker is an error.
func (s *Store) ListDirNames(dir string) ([]string, error) {
	candidates, err := shardEntries(dir, TagDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !c.isDir {
			s.log.Debug("skipping stray file in directory shard", "path", c.path)
			continue
		}
		marker := filepath.Join(c.path, DirMarker)
		data, err := os.ReadFile(marker)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", marker, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		names = append(names, string(data))
	}
	return names, nil
}

// Listing is the content of one user directory.
type Listing struct {
	Dirs     []string
	Projects []string
}

// ListDirectory lists the sub-directories and projects of relPath, each
// sorted by name.
func (s *Store) ListDirectory(mode BuildMode, user UserID, relPath string) (Listing, error) {
	var l Listing
	dir, err := s.UserPath(mode, user, relPath)
	if err != nil {
		return l, err
	}
	if l.Dirs, err = s.ListDirNames(dir); err != nil {
		return l, err
	}
	if l.Projects, err = s.ListProjectNames(dir); err != nil {
		return l, err
	}
	slices.Sort(l.Dirs)
	slices.Sort(l.Projects)
	return l, nil
}
