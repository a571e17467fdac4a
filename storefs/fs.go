package storefs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/dendrascience/progstore/store"
)

const (
	dirPrograms = "programs"
	dirDeploy   = "deploy"
	dirShare    = "share"
)

// FS implements a read-only FUSE view of one build mode.
type FS struct {
	Store  *store.Store
	Mode   store.BuildMode
	inodes *inodeTable
}

// NewFS creates a view of mode in s.
func NewFS(s *store.Store, mode store.BuildMode) *FS {
	return &FS{Store: s, Mode: mode, inodes: newInodeTable()}
}

// Root returns the root directory node
func (f *FS) Root() (fusefs.Node, error) {
	return &Dir{fs: f, path: "/"}, nil
}

// Dir is a virtual directory: the root or one of the handle directories.
type Dir struct {
	fs   *FS
	path string
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.fs.inodes.get(d.path)
	a.Mode = os.ModeDir | 0o555
	return nil
}

// Lookup resolves names to nodes
func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	switch d.path {
	case "/":
		switch name {
		case dirPrograms, dirDeploy, dirShare:
			return &Dir{fs: d.fs, path: "/" + name}, nil
		}
	case "/" + dirPrograms:
		return d.lookupProgram(name)
	case "/" + dirDeploy:
		return d.lookupDeploy(name)
	case "/" + dirShare:
		return d.lookupShare(name)
	}
	return nil, syscall.ENOENT
}

func (d *Dir) lookupProgram(name string) (fusefs.Node, error) {
	id, err := store.ParseProgramID(strings.TrimSuffix(name, store.ExtSource))
	if err != nil || !strings.HasSuffix(name, store.ExtSource) {
		return nil, syscall.ENOENT
	}
	return d.fs.fileNode(path.Join(d.path, name), d.fs.Store.Paths(d.fs.Mode, id).Source)
}

func (d *Dir) lookupDeploy(name string) (fusefs.Node, error) {
	id, err := store.ParseDeployID(name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	target, err := d.fs.Store.ResolveDeploy(d.fs.Mode, id)
	if err != nil {
		return nil, toErrno(err)
	}
	return d.fs.fileNode(path.Join(d.path, name), d.fs.Store.Paths(d.fs.Mode, target).Source)
}

func (d *Dir) lookupShare(name string) (fusefs.Node, error) {
	id, err := store.ParseShareID(name)
	if err != nil {
		return nil, syscall.ENOENT
	}
	folder, err := d.fs.Store.SharedFolder(d.fs.Mode, id)
	if err != nil {
		return nil, toErrno(err)
	}
	info, err := os.Lstat(folder)
	if err != nil {
		return nil, toErrno(err)
	}
	if !info.IsDir() {
		return nil, syscall.ENOENT
	}
	return &RealDir{fs: d.fs, vpath: path.Join(d.path, name), real: folder}, nil
}

// ReadDirAll lists directory contents
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	switch d.path {
	case "/":
		var dirents []fuse.Dirent
		for _, name := range []string{dirPrograms, dirDeploy, dirShare} {
			dirents = append(dirents, fuse.Dirent{
				Inode: d.fs.inodes.get("/" + name),
				Name:  name,
				Type:  fuse.DT_Dir,
			})
		}
		return dirents, nil
	case "/" + dirPrograms:
		return d.fs.listFamily(store.FamilySource, d.path, fuse.DT_File, func(n string) bool {
			return strings.HasSuffix(n, store.ExtSource)
		})
	case "/" + dirDeploy:
		return d.fs.listFamily(store.FamilyDeploy, d.path, fuse.DT_File, nil)
	case "/" + dirShare:
		return d.fs.listFamily(store.FamilyShare, d.path, fuse.DT_Dir, nil)
	}
	return nil, syscall.ENOENT
}

// Create rejects new files
func (d *Dir) Create(ctx context.Context, req *fuse.CreateRequest, resp *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	return nil, nil, syscall.EPERM
}

// Mkdir rejects new directories
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	return nil, syscall.EPERM
}

// Remove rejects deletions
func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	return syscall.EPERM
}

// listFamily flattens the shard directories of a family into one listing.
func (f *FS) listFamily(family store.Family, vdir string, typ fuse.DirentType, keep func(string) bool) ([]fuse.Dirent, error) {
	root := f.Store.FamilyRoot(family, f.Mode)
	shards, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dirents []fuse.Dirent
	for _, sh := range shards {
		if !sh.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, sh.Name()))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || (keep != nil && !keep(e.Name())) {
				continue
			}
			dirents = append(dirents, fuse.Dirent{
				Inode: f.inodes.get(path.Join(vdir, e.Name())),
				Name:  e.Name(),
				Type:  typ,
			})
		}
	}
	return dirents, nil
}

// fileNode exposes real if it is a regular file or directory. Symlinks and
// other special files are not followed.
func (f *FS) fileNode(vpath, real string) (fusefs.Node, error) {
	info, err := os.Lstat(real)
	if err != nil {
		return nil, toErrno(err)
	}
	switch {
	case info.IsDir():
		return &RealDir{fs: f, vpath: vpath, real: real}, nil
	case info.Mode().IsRegular():
		return &File{fs: f, vpath: vpath, real: real}, nil
	default:
		return nil, syscall.ENOENT
	}
}

// RealDir mirrors an on-disk directory read-only.
type RealDir struct {
	fs    *FS
	vpath string
	real  string
}

// Attr returns directory attributes
func (d *RealDir) Attr(ctx context.Context, a *fuse.Attr) error {
	info, err := os.Stat(d.real)
	if err != nil {
		return toErrno(err)
	}
	a.Inode = d.fs.inodes.get(d.vpath)
	a.Mode = os.ModeDir | 0o555
	a.Mtime = info.ModTime()
	a.Ctime = info.ModTime()
	return nil
}

// Lookup resolves a child of the mirrored directory
func (d *RealDir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	return d.fs.fileNode(path.Join(d.vpath, name), filepath.Join(d.real, name))
}

// ReadDirAll lists the mirrored directory
func (d *RealDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := os.ReadDir(d.real)
	if err != nil {
		return nil, toErrno(err)
	}
	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		typ := fuse.DT_File
		if e.IsDir() {
			typ = fuse.DT_Dir
		} else if !e.Type().IsRegular() {
			continue
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.get(path.Join(d.vpath, e.Name())),
			Name:  e.Name(),
			Type:  typ,
		})
	}
	return dirents, nil
}

// File is a read-only view of an on-disk file.
type File struct {
	fs    *FS
	vpath string
	real  string
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	info, err := os.Stat(f.real)
	if err != nil {
		return toErrno(err)
	}
	a.Inode = f.fs.inodes.get(f.vpath)
	a.Mode = 0o444
	a.Size = uint64(info.Size())
	a.Mtime = info.ModTime()
	a.Ctime = info.ModTime()
	return nil
}

// ReadAll reads the entire file content
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.real)
	if err != nil {
		return nil, toErrno(err)
	}
	return data, nil
}

// toErrno maps store and os errors onto FUSE errnos.
func toErrno(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrInvalidPath):
		return syscall.ENOENT
	case errors.Is(err, fs.ErrPermission):
		return syscall.EACCES
	default:
		return err
	}
}
