package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dendrascience/progstore/store"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "PROGSTORE_CONFIG"

// Config is the progstore configuration.
type Config struct {
	// Root is the directory holding every build mode tree.
	Root string `yaml:"root"`

	// Modes lists the accepted build modes. The first is the default.
	Modes []string `yaml:"modes"`

	// Hash selects the identifier hasher: md5, sha256 or blake3.
	// Changing it changes every newly derived identifier.
	Hash string `yaml:"hash"`

	// DeploySalt prefixes every deploy handle derivation.
	DeploySalt string `yaml:"deploy_salt"`

	// LegacyDeployTag mints deploy handles with the 'D' tag shared with
	// directory identifiers, for compatibility with published links.
	LegacyDeployTag bool `yaml:"legacy_deploy_tag"`

	// LegacySuffix marks entries to move during migration.
	LegacySuffix string `yaml:"legacy_suffix"`

	// BaseVersion is the default base library version.
	BaseVersion string `yaml:"base_version"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Root:         "data",
		Modes:        []string{"codeworld", "haskell"},
		Hash:         "md5",
		DeploySalt:   store.DefaultDeploySalt,
		LegacySuffix: store.ExtProject,
		BaseVersion:  "current",
	}
}

// Load loads the file named by PROGSTORE_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if len(c.Modes) == 0 {
		errs = append(errs, errors.New("at least one mode is required"))
	}
	seen := make(map[string]bool)
	for _, m := range c.Modes {
		if m == "" || !filepath.IsLocal(m) || filepath.Base(m) != m {
			errs = append(errs, fmt.Errorf("invalid mode %q", m))
		}
		if m == "base" {
			errs = append(errs, errors.New(`mode "base" collides with the base library directory`))
		}
		if seen[m] {
			errs = append(errs, fmt.Errorf("duplicate mode %q", m))
		}
		seen[m] = true
	}
	if _, err := store.HasherByName(c.Hash); err != nil {
		errs = append(errs, err)
	}
	if c.LegacySuffix == "" {
		errs = append(errs, errors.New("legacy_suffix is required"))
	}
	return errors.Join(errs...)
}

// DefaultMode returns the first configured mode.
func (c *Config) DefaultMode() string {
	if len(c.Modes) == 0 {
		return ""
	}
	return c.Modes[0]
}

// Store builds a store.Store from the configuration.
func (c *Config) Store(log *slog.Logger) (*store.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h, err := store.HasherByName(c.Hash)
	if err != nil {
		return nil, err
	}
	modes := make([]store.BuildMode, len(c.Modes))
	for i, m := range c.Modes {
		modes[i] = store.BuildMode(m)
	}
	opts := []store.Option{
		store.WithHasher(h),
		store.WithDeploySalt(c.DeploySalt),
		store.WithModes(modes...),
		store.WithLogger(log),
	}
	if c.LegacyDeployTag {
		opts = append(opts, store.WithLegacyDeployTag())
	}
	return store.New(c.Root, opts...), nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func (c *Config) expandVariables() {
	c.Root = expandVars(c.Root)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns from the
// environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}
