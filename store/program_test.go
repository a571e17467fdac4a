package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
)

func TestSaveSource(t *testing.T) {
	s := New(t.TempDir())
	src := []byte("main = drawingOf(circle(1))")

	id, err := s.SaveSource("codeworld", src)
	if err != nil {
		t.Fatalf("SaveSource() error = %v", err)
	}
	if id != s.ProgramID(src) {
		t.Errorf("SaveSource() = %q, want %q", id, s.ProgramID(src))
	}
	got, err := os.ReadFile(s.Paths("codeworld", id).Source)
	if err != nil || string(got) != string(src) {
		t.Errorf("stored source = %q, %v", got, err)
	}

	again, err := s.SaveSource("codeworld", src)
	if err != nil || again != id {
		t.Errorf("second SaveSource() = %q, %v", again, err)
	}
}

func TestSaveSource_RepairsInterruptedWrite(t *testing.T) {
	s := New(t.TempDir())
	src := []byte("main = drawingOf(circle(1))")
	path := s.Paths("codeworld", s.ProgramID(src)).Source

	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, src[:5], 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SaveSource("codeworld", src); err != nil {
		t.Fatalf("SaveSource() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != string(src) {
		t.Errorf("stored source = %q, %v, want %q", got, err, src)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("shard holds %d entries, want only the source", len(entries))
	}
}

func TestSaveSource_Concurrent(t *testing.T) {
	s := New(t.TempDir())
	src := []byte("main = drawingOf(blank)")

	var wg sync.WaitGroup
	ids := make([]ProgramID, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.SaveSource("codeworld", src)
		}(i)
	}
	wg.Wait()
	for i := range ids {
		if errs[i] != nil {
			t.Errorf("writer %d error = %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("writer %d id = %q, want %q", i, ids[i], ids[0])
		}
	}
}

func TestDeploy_TwiceYieldsDistinctHandles(t *testing.T) {
	s := New(t.TempDir())
	src := []byte("main = drawingOf(rectangle(1, 2))")

	d1, p1, err := s.Deploy("codeworld", src)
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	d2, p2, err := s.Deploy("codeworld", src)
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	if d1 == d2 {
		t.Errorf("two deploys returned the same handle %q", d1)
	}
	if p1 != p2 {
		t.Errorf("two deploys of the same source gave programs %q and %q", p1, p2)
	}
	for _, d := range []DeployID{d1, d2} {
		got, err := s.ResolveDeploy("codeworld", d)
		if err != nil {
			t.Fatalf("ResolveDeploy(%q) error = %v", d, err)
		}
		if got != p1 {
			t.Errorf("ResolveDeploy(%q) = %q, want %q", d, got, p1)
		}
	}
}

func TestRemoveBuildOutputs(t *testing.T) {
	s := New(t.TempDir())
	id := s.ProgramID([]byte("x"))
	if err := s.EnsureBuildDir("codeworld", id); err != nil {
		t.Fatalf("EnsureBuildDir() error = %v", err)
	}
	p := s.Paths("codeworld", id)
	os.WriteFile(p.Target, []byte("js"), 0644)
	os.WriteFile(p.Diagnostics, []byte(""), 0644)
	os.MkdirAll(p.TargetBase+".jsexe", 0755)
	os.WriteFile(filepath.Join(p.TargetBase+".jsexe", "out.js"), []byte("js"), 0644)

	for i := 0; i < 2; i++ {
		if err := s.RemoveBuildOutputs("codeworld", id); err != nil {
			t.Fatalf("RemoveBuildOutputs() call %d error = %v", i, err)
		}
	}
	for _, path := range []string{p.Target, p.Diagnostics, p.TargetBase + ".jsexe"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", path)
		}
	}
}

func TestShareAndImport(t *testing.T) {
	s := New(t.TempDir())
	const mode = BuildMode("codeworld")

	rel := s.DirRelPath("homework")
	if _, err := s.WriteDirMarker(mode, "alice", "", "homework"); err != nil {
		t.Fatalf("WriteDirMarker() error = %v", err)
	}
	if _, err := s.WriteProject(mode, "alice", rel, Project{Name: "Homework1", Source: "main = x"}); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}

	share, err := s.ShareFolder(mode, "alice", rel)
	if err != nil {
		t.Fatalf("ShareFolder() error = %v", err)
	}
	again, err := s.ShareFolder(mode, "alice", rel)
	if err != nil || again != share {
		t.Errorf("resharing unchanged folder = %q, %v, want %q", again, err, share)
	}

	folder, err := s.SharedFolder(mode, share)
	if err != nil {
		t.Fatalf("SharedFolder() error = %v", err)
	}
	want, _ := s.UserPath(mode, "alice", rel)
	if folder != want {
		t.Errorf("SharedFolder() = %q, want %q", folder, want)
	}

	if err := s.EnsureUserRoot(mode, "bob"); err != nil {
		t.Fatalf("EnsureUserRoot() error = %v", err)
	}
	if _, err := s.ImportShare(mode, share, "bob", "", "from alice"); err != nil {
		t.Fatalf("ImportShare() error = %v", err)
	}
	listing, err := s.ListDirectory(mode, "bob", "")
	if err != nil {
		t.Fatalf("ListDirectory() error = %v", err)
	}
	if len(listing.Dirs) != 1 || listing.Dirs[0] != "from alice" {
		t.Errorf("bob dirs = %v", listing.Dirs)
	}
	imported, err := s.ListDirectory(mode, "bob", s.DirRelPath("from alice"))
	if err != nil {
		t.Fatalf("ListDirectory(imported) error = %v", err)
	}
	if len(imported.Projects) != 1 || imported.Projects[0] != "Homework1" {
		t.Errorf("imported projects = %v", imported.Projects)
	}
}

func TestImportShare_IntoSharedFolder(t *testing.T) {
	s := New(t.TempDir())
	const mode = BuildMode("codeworld")

	rel := s.DirRelPath("A")
	if _, err := s.WriteDirMarker(mode, "alice", "", "A"); err != nil {
		t.Fatalf("WriteDirMarker() error = %v", err)
	}
	s.WriteProject(mode, "alice", rel, Project{Name: "Homework1", Source: "main = x"})
	share, err := s.ShareFolder(mode, "alice", rel)
	if err != nil {
		t.Fatalf("ShareFolder() error = %v", err)
	}
	if _, err := s.WriteDirMarker(mode, "alice", rel, "B"); err != nil {
		t.Fatalf("WriteDirMarker(B) error = %v", err)
	}

	tests := []struct {
		name    string
		relPath string
	}{
		{"into shared folder", rel},
		{"below shared folder", filepath.Join(rel, s.DirRelPath("B"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ImportShare(mode, share, "alice", tt.relPath, "copy")
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("ImportShare() error = %v, want ErrInvalidPath", err)
			}
			dst, _ := s.DirPath(mode, "alice", tt.relPath, s.DirID("copy"))
			if _, err := os.Stat(dst); !os.IsNotExist(err) {
				t.Errorf("import left %s behind: %v", dst, err)
			}
		})
	}

	listing, err := s.ListDirectory(mode, "alice", rel)
	if err != nil {
		t.Fatalf("ListDirectory() error = %v", err)
	}
	if !slices.Equal(listing.Projects, []string{"Homework1"}) {
		t.Errorf("projects = %v", listing.Projects)
	}
}
