package storefs

import (
	"sync"
)

// rootInode is reserved for the mount root.
const rootInode = 1

// inodeTable hands out stable inode numbers per virtual path.
type inodeTable struct {
	mu     sync.Mutex
	next   uint64
	byPath map[string]uint64
}

func newInodeTable() *inodeTable {
	return &inodeTable{next: rootInode, byPath: map[string]uint64{"/": rootInode}}
}

// get returns the inode of path, allocating one on first use.
func (t *inodeTable) get(path string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ino, ok := t.byPath[path]; ok {
		return ino
	}
	t.next++
	t.byPath[path] = t.next
	return t.next
}
