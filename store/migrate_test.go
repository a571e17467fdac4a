package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateLegacyUser(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, "abc.ext"), []byte("one"), 0644)
	os.WriteFile(filepath.Join(root, "xyz.ext"), []byte("two"), 0644)
	os.WriteFile(filepath.Join(root, "keep.txt"), []byte("three"), 0644)
	os.Mkdir(filepath.Join(root, "Dzz.ext"), 0755)

	moved, err := MigrateLegacyUser(root, ".ext", nil)
	if err != nil {
		t.Fatalf("MigrateLegacyUser() error = %v", err)
	}
	if moved != 3 {
		t.Errorf("MigrateLegacyUser() moved %d entries, want 3", moved)
	}

	for _, name := range []string{"abc.ext", "xyz.ext"} {
		path := filepath.Join(root, name[:3], name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not relocated: %v", path, err)
		}
		if _, err := os.Stat(filepath.Join(root, name)); !os.IsNotExist(err) {
			t.Errorf("%s still at top level", name)
		}
	}
	if info, err := os.Stat(filepath.Join(root, "Dzz", "Dzz.ext")); err != nil || !info.IsDir() {
		t.Errorf("legacy directory not relocated: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "keep.txt")); err != nil {
		t.Errorf("non-legacy entry moved: %v", err)
	}

	moved, err = MigrateLegacyUser(root, ".ext", nil)
	if err != nil {
		t.Fatalf("second MigrateLegacyUser() error = %v", err)
	}
	if moved != 0 {
		t.Errorf("second MigrateLegacyUser() moved %d entries, want 0", moved)
	}
}

func TestMigrateUser_ThenList(t *testing.T) {
	s := New(t.TempDir())
	const mode = BuildMode("codeworld")
	s.EnsureUserRoot(mode, "alice")
	root, _ := s.UserRoot(mode, "alice")

	// Legacy layout: project files directly in the user root.
	id := s.ProjectID("Homework1")
	os.WriteFile(filepath.Join(root, string(id)+ExtProject), []byte(`{"name":"Homework1"}`), 0644)

	if names, _ := s.ListProjectNames(root); len(names) != 0 {
		t.Errorf("legacy project listed before migration: %v", names)
	}
	if _, err := s.MigrateUser(mode, "alice", ""); err != nil {
		t.Fatalf("MigrateUser() error = %v", err)
	}
	names, err := s.ListProjectNames(root)
	if err != nil {
		t.Fatalf("ListProjectNames() error = %v", err)
	}
	if len(names) != 1 || names[0] != "Homework1" {
		t.Errorf("ListProjectNames() after migration = %v", names)
	}
}

func TestMigrateLegacyUser_MissingRoot(t *testing.T) {
	if _, err := MigrateLegacyUser(filepath.Join(t.TempDir(), "gone"), ".cw", nil); !os.IsNotExist(err) {
		t.Errorf("MigrateLegacyUser(missing) error = %v, want not exist", err)
	}
}
