package store

import (
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Checksum fingerprints every regular file under dir. Files are folded into
// one hash in lexicographic order of their slash-separated relative paths;
// each file contributes its relative path, its length and its bytes, so
// renaming, adding or removing even an empty file changes the result.
//
// The tree must not change while the checksum is computed.
func (s *Store) Checksum(dir string) (Checksum, error) {
	files, err := regularFiles(dir)
	if err != nil {
		return "", err
	}
	h := s.hasher.New()
	var lenBuf [8]byte
	for _, rel := range files {
		io.WriteString(h, rel)
		h.Write([]byte{0})
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return "", err
		}
		binary.BigEndian.PutUint64(lenBuf[:], uint64(info.Size()))
		h.Write(lenBuf[:])
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	return Checksum(string(TagChecksum) + sumDigest(h)), nil
}

// IsStale reports whether the tree under dir no longer matches recorded.
func (s *Store) IsStale(dir string, recorded Checksum) (bool, error) {
	current, err := s.Checksum(dir)
	if err != nil {
		return false, err
	}
	return current != recorded, nil
}

// regularFiles returns the sorted slash-separated relative paths of every
// regular file under dir.
func regularFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}
