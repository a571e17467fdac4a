package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// EnsureDir creates path. An existing directory is success, including one
// created concurrently by another caller. With recursive set, missing parents
// are created too.
func EnsureDir(path string, recursive bool) error {
	var err error
	if recursive {
		err = os.MkdirAll(path, dirPerm)
	} else {
		err = os.Mkdir(path, dirPerm)
	}
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return statErr
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrExpectedDirectory)
	}
	return nil
}

// RemoveFileIfMissingOk removes a file. A missing file is success; every
// other failure is returned unchanged.
func RemoveFileIfMissingOk(path string) error {
	err := os.Remove(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// RemoveDirIfMissingOk removes a directory tree. A missing directory is
// success; every other failure is returned unchanged.
func RemoveDirIfMissingOk(path string) error {
	err := os.RemoveAll(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// CopyDirIfExists copies the tree at src to dst. A missing src is a no-op.
// Existing files under dst are overwritten. dst must not lie inside src.
func CopyDirIfExists(src, dst string) error {
	if isWithin(src, dst) {
		return fmt.Errorf("%w: %s is inside %s", ErrInvalidPath, dst, src)
	}
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", src, ErrExpectedDirectory)
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return EnsureDir(target, true)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

// isWithin reports whether child is parent or lies below it.
func isWithin(parent, child string) bool {
	parent, errP := filepath.Abs(parent)
	child, errC := filepath.Abs(child)
	if errP != nil || errC != nil {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeContentFile publishes data at path. A path already holding exactly
// data is left alone; anything else there, such as the remains of an
// interrupted write, is replaced. The bytes go to a temporary file in the same
// directory first and are renamed into place, so readers never see a partial
// file and concurrent writers of the same content race harmlessly.
func writeContentFile(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return false, err
	}
	tmpPath := tmp.Name()
	published := false
	defer func() {
		if !published {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return false, err
	}
	published = true
	return true, nil
}
