package store

import (
	"fmt"
	"log/slog"
	"slices"
)

// DefaultDeploySalt prefixes every deploy derivation.
const DefaultDeploySalt = "DEPLOY_ID"

// BuildMode selects a namespace root such as a language variant.
type BuildMode string

// Store resolves and manages artifacts under a single root directory.
// A Store holds no mutable state and is safe for concurrent use.
type Store struct {
	root       string
	hasher     Hasher
	deploySalt string
	deployTag  byte
	modes      []BuildMode
	decode     ProjectDecoder
	log        *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHasher replaces the default MD5 hasher.
func WithHasher(h Hasher) Option {
	return func(s *Store) { s.hasher = h }
}

// WithDeploySalt replaces DefaultDeploySalt.
func WithDeploySalt(salt string) Option {
	return func(s *Store) { s.deploySalt = salt }
}

// WithLegacyDeployTag mints deploy handles with TagLegacyDeploy, the tag
// directory identifiers also use. Deploy and directory identifiers live under
// different roots so the overlap never collides on disk, but a handle alone no
// longer says which family it belongs to.
func WithLegacyDeployTag() Option {
	return func(s *Store) { s.deployTag = TagLegacyDeploy }
}

// WithModes restricts the build modes accepted by Mode.
func WithModes(modes ...BuildMode) Option {
	return func(s *Store) { s.modes = modes }
}

// WithProjectDecoder replaces the JSON project decoder used by listings.
func WithProjectDecoder(d ProjectDecoder) Option {
	return func(s *Store) { s.decode = d }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store rooted at root.
func New(root string, opts ...Option) *Store {
	s := &Store{
		root:       root,
		hasher:     MD5,
		deploySalt: DefaultDeploySalt,
		deployTag:  TagDeploy,
		decode:     DecodeJSONProject,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Root returns the store root directory.
func (s *Store) Root() string { return s.root }

// Hasher returns the configured hasher.
func (s *Store) Hasher() Hasher { return s.hasher }

// Mode validates name against the configured modes. With no modes
// configured every non-empty name is accepted.
func (s *Store) Mode(name string) (BuildMode, error) {
	m := BuildMode(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownMode)
	}
	if len(s.modes) > 0 && !slices.Contains(s.modes, m) {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Modes returns the configured build modes.
func (s *Store) Modes() []BuildMode {
	return slices.Clone(s.modes)
}

// ProgramID derives the identifier of source content.
func (s *Store) ProgramID(src []byte) ProgramID {
	return ProgramID(DeriveID(s.hasher, TagProgram, src))
}

// ProjectID derives the identifier of a project name.
func (s *Store) ProjectID(name string) ProjectID {
	return ProjectID(DeriveID(s.hasher, TagProject, []byte(name)))
}

// DirID derives the identifier of a directory name.
func (s *Store) DirID(name string) DirID {
	return DirID(DeriveID(s.hasher, TagDir, []byte(name)))
}

// DeployID derives a deploy handle from the configured salt, a per-action
// nonce and the deployed source. Identical inputs give identical handles;
// a fresh nonce gives a fresh handle for the same source.
func (s *Store) DeployID(nonce string, src []byte) DeployID {
	buf := make([]byte, 0, len(s.deploySalt)+len(nonce)+len(src))
	buf = append(buf, s.deploySalt...)
	buf = append(buf, nonce...)
	buf = append(buf, src...)
	return DeployID(DeriveID(s.hasher, s.deployTag, buf))
}
