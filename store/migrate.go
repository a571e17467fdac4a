package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MigrateLegacyUser moves every top-level entry of userRoot whose name ends
// in suffix into the shard directory named by its first three characters,
// e.g. root/abc.cw becomes root/abc/abc.cw. Moved entries no longer match,
// so running it again is a no-op.
//
// The scan and the moves are not atomic as a whole. Callers must not run two
// migrations of the same root concurrently.
func MigrateLegacyUser(userRoot, suffix string, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.Default()
	}
	entries, err := os.ReadDir(userRoot)
	if err != nil {
		return 0, err
	}
	var legacy []string
	for _, e := range entries {
		name := e.Name()
		if len(name) <= ShardLen || !strings.HasSuffix(name, suffix) {
			continue
		}
		legacy = append(legacy, name)
	}
	for _, name := range legacy {
		if err := EnsureDir(filepath.Join(userRoot, shardOf(name)), false); err != nil {
			return 0, err
		}
	}
	moved := 0
	for _, name := range legacy {
		from := filepath.Join(userRoot, name)
		to := filepath.Join(userRoot, shardOf(name), name)
		if err := os.Rename(from, to); err != nil {
			return moved, err
		}
		log.Info("migrated legacy entry", "from", from, "to", to)
		moved++
	}
	return moved, nil
}

// MigrateUser migrates the legacy flat project tree of one user.
func (s *Store) MigrateUser(mode BuildMode, user UserID, suffix string) (int, error) {
	root, err := s.UserRoot(mode, user)
	if err != nil {
		return 0, err
	}
	if suffix == "" {
		suffix = ExtProject
	}
	return MigrateLegacyUser(root, suffix, s.log)
}
