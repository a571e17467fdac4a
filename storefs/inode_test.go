package storefs

import (
	"sync"
	"testing"
)

func TestInodeTableStable(t *testing.T) {
	tbl := newInodeTable()
	if got := tbl.get("/"); got != rootInode {
		t.Errorf("root inode = %d, want %d", got, rootInode)
	}
	a := tbl.get("/programs")
	b := tbl.get("/deploy")
	if a == b || a == rootInode || b == rootInode {
		t.Errorf("inodes not distinct: %d %d", a, b)
	}
	if again := tbl.get("/programs"); again != a {
		t.Errorf("second lookup = %d, want %d", again, a)
	}
}

func TestInodeTableConcurrent(t *testing.T) {
	tbl := newInodeTable()
	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]uint64, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tbl.get("/share/x")
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("goroutine %d got %d, want %d", i, r, results[0])
		}
	}
}
