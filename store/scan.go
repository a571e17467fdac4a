package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Fanout summarizes how a family root is spread over its shards.
type Fanout struct {
	Shards     int    `json:"shards"`
	Entries    int    `json:"entries"`
	MaxEntries int    `json:"max_entries"`
	MaxShard   string `json:"max_shard"`
}

// FanoutOf counts the shard directories of a family and their entries.
// A family root that does not exist yet has an empty fanout.
func (s *Store) FanoutOf(f Family, mode BuildMode) (Fanout, error) {
	var out Fanout
	shards, err := os.ReadDir(s.FamilyRoot(f, mode))
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	for _, sh := range shards {
		if !sh.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(s.FamilyRoot(f, mode), sh.Name()))
		if err != nil {
			return out, err
		}
		out.Shards++
		out.Entries += len(entries)
		if len(entries) > out.MaxEntries {
			out.MaxEntries = len(entries)
			out.MaxShard = sh.Name()
		}
	}
	return out, nil
}

// LinkProblem describes a link file that does not resolve.
type LinkProblem struct {
	Path   string
	Reason string
}

// ValidateDeployLinks checks that every deploy link under mode names a valid
// ProgramID whose source exists.
func (s *Store) ValidateDeployLinks(mode BuildMode) (checked int, problems []LinkProblem, err error) {
	root := s.FamilyRoot(FamilyDeploy, mode)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) && path == root {
			return filepath.SkipDir
		}
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		checked++
		if Shard(d.Name()) != filepath.Base(filepath.Dir(path)) {
			problems = append(problems, LinkProblem{path, "link is in the wrong shard"})
		}
		if _, err := ParseDeployID(d.Name()); err != nil {
			problems = append(problems, LinkProblem{path, err.Error()})
			return nil
		}
		target, err := s.ResolveDeploy(mode, DeployID(d.Name()))
		if err != nil {
			problems = append(problems, LinkProblem{path, err.Error()})
			return nil
		}
		if _, err := os.Stat(s.Paths(mode, target).Source); err != nil {
			problems = append(problems, LinkProblem{path, fmt.Sprintf("target %s: %v", target, err)})
		}
		return nil
	})
	return checked, problems, err
}
