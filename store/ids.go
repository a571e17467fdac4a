package store

import (
	"fmt"
)

// Type tags. Each identifier family starts with its own tag character.
const (
	TagProgram  byte = 'P'
	TagProject  byte = 'S'
	TagDir      byte = 'D'
	TagDeploy   byte = 'L'
	TagShare    byte = 'H'
	TagChecksum byte = 'F'

	// TagLegacyDeploy is the deploy tag used before deploy and directory
	// identifiers were split. See WithLegacyDeployTag.
	TagLegacyDeploy byte = 'D'
)

// ShardLen is the number of leading identifier characters used as the shard
// directory name.
const ShardLen = 3

type (
	// ProgramID addresses submitted source content.
	ProgramID string
	// ProjectID addresses a user project by its name.
	ProjectID string
	// DirID addresses a user directory by its name.
	DirID string
	// DeployID is a deploy handle linking to a ProgramID.
	DeployID string
	// ShareID is a share handle linking to a user folder.
	ShareID string
	// Checksum fingerprints a whole directory subtree.
	Checksum string
)

// ID is satisfied by every identifier family.
type ID interface {
	~string
}

// DeriveID hashes data with h and prepends tag.
func DeriveID(h Hasher, tag byte, data []byte) string {
	return string(tag) + Digest(h, data)
}

// Shard returns the shard directory name for id.
func Shard[T ID](id T) string {
	return shardOf(string(id))
}

func shardOf(name string) string {
	if len(name) < ShardLen {
		return name
	}
	return name[:ShardLen]
}

// ShareIDFromChecksum derives the share handle for a folder with checksum c.
// Sharing identical folder content always yields the same handle.
func ShareIDFromChecksum(c Checksum) ShareID {
	if len(c) == 0 {
		return ""
	}
	return ShareID(string(TagShare) + string(c[1:]))
}

// ParseProgramID validates s as a ProgramID.
func ParseProgramID(s string) (ProgramID, error) {
	return ProgramID(s), checkID(s, TagProgram)
}

// ParseProjectID validates s as a ProjectID.
func ParseProjectID(s string) (ProjectID, error) {
	return ProjectID(s), checkID(s, TagProject)
}

// ParseDirID validates s as a DirID.
func ParseDirID(s string) (DirID, error) {
	return DirID(s), checkID(s, TagDir)
}

// ParseDeployID validates s as a DeployID. Handles minted with the legacy
// tag are accepted.
func ParseDeployID(s string) (DeployID, error) {
	return DeployID(s), checkID(s, TagDeploy, TagLegacyDeploy)
}

// ParseShareID validates s as a ShareID.
func ParseShareID(s string) (ShareID, error) {
	return ShareID(s), checkID(s, TagShare)
}

func checkID(s string, tags ...byte) error {
	if len(s) != 1+encodedDigestLen {
		return fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidID, s, len(s), 1+encodedDigestLen)
	}
	tagOK := false
	for _, t := range tags {
		if s[0] == t {
			tagOK = true
			break
		}
	}
	if !tagOK {
		return fmt.Errorf("%w: %q has tag %q", ErrInvalidID, s, s[0])
	}
	for i := 1; i < len(s); i++ {
		if !isURLSafe(s[i]) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidID, s, s[i])
		}
	}
	return nil
}

func isURLSafe(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
