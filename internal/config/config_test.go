package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/progstore/store"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Hash != "md5" {
		t.Errorf("expected hash=md5, got %s", cfg.Hash)
	}
	if cfg.DeploySalt != store.DefaultDeploySalt {
		t.Errorf("expected deploy_salt=%s, got %s", store.DefaultDeploySalt, cfg.DeploySalt)
	}
	if cfg.DefaultMode() != "codeworld" {
		t.Errorf("expected default mode codeworld, got %s", cfg.DefaultMode())
	}
}

func TestLoad_WithoutEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != Default().Root {
		t.Errorf("expected default root, got %s", cfg.Root)
	}
}

func TestLoad_WithEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progstore.yaml")
	content := `
root: ${PROGSTORE_TEST_ROOT:-/fallback}/data
modes: [haskell]
hash: blake3
legacy_deploy_tag: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(EnvConfig, path)
	t.Setenv("PROGSTORE_TEST_ROOT", "/srv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Root != "/srv/data" {
		t.Errorf("expected root=/srv/data, got %s", cfg.Root)
	}
	if len(cfg.Modes) != 1 || cfg.Modes[0] != "haskell" {
		t.Errorf("expected modes=[haskell], got %v", cfg.Modes)
	}
	if cfg.DeploySalt != store.DefaultDeploySalt {
		t.Errorf("unset deploy_salt should keep default, got %q", cfg.DeploySalt)
	}

	s, err := cfg.Store(nil)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if s.Hasher().Name() != "blake3" {
		t.Errorf("expected blake3 hasher, got %s", s.Hasher().Name())
	}
	if id := s.DeployID("n", []byte("x")); id[0] != store.TagLegacyDeploy {
		t.Errorf("expected legacy deploy tag, got %q", id[0])
	}
	if _, err := s.Mode("codeworld"); err == nil {
		t.Error("mode outside the configured list should be rejected")
	}
}

func TestExpandVars_Fallback(t *testing.T) {
	t.Setenv("PROGSTORE_UNSET_VAR", "")
	if got := expandVars("${PROGSTORE_UNSET_VAR:-/tmp/x}/y"); got != "/tmp/x/y" {
		t.Errorf("expandVars() = %q", got)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("LoadFile(missing) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "root is required"},
		{"no modes", func(c *Config) { c.Modes = nil }, "at least one mode"},
		{"escaping mode", func(c *Config) { c.Modes = []string{"../x"} }, "invalid mode"},
		{"nested mode", func(c *Config) { c.Modes = []string{"a/b"} }, "invalid mode"},
		{"base mode", func(c *Config) { c.Modes = []string{"base"} }, "collides"},
		{"duplicate mode", func(c *Config) { c.Modes = []string{"a", "a"} }, "duplicate mode"},
		{"bad hash", func(c *Config) { c.Hash = "crc32" }, "unknown hasher"},
		{"no suffix", func(c *Config) { c.LegacySuffix = "" }, "legacy_suffix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
