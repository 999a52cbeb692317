// Package config provides reading and writing of palimpsest configuration.
// Supports both global (~/.palimpsest/config.yaml) and local
// (.palimpsest/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.palimpsest/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is journal-specific config in .palimpsest/config.yaml
	ScopeLocal
)

// Author represents the author metadata stored in the journal config.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Search holds search tuning options.
type Search struct {
	DefaultLimit *int `yaml:"default_limit,omitempty"`
	CandidateCap *int `yaml:"candidate_cap,omitempty"`
}

// Limits holds size limit configuration options.
type Limits struct {
	MaxContent *int64 `yaml:"max_content,omitempty"`
}

// Defaults applied when not configured.
const (
	DefaultSearchLimit  = 50
	DefaultCandidateCap = 1000
	DefaultMaxContent   = 10 * 1024 * 1024 // 10 MB per entry
)

// Validation bounds for configuration values.
const (
	MinSearchLimit  = 1
	MaxSearchLimit  = 10000
	MinCandidateCap = 1
	MaxCandidateCap = 1000000
	MinMaxContent   = 1
	MaxMaxContent   = 1024 * 1024 * 1024 // 1 GB
)

// Config contains configuration for palimpsest.
type Config struct {
	Author Author `yaml:"author,omitempty"`
	Search Search `yaml:"search,omitempty"`
	Limits Limits `yaml:"limits,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Search.DefaultLimit != nil {
		v := *c.Search.DefaultLimit
		if v < MinSearchLimit || v > MaxSearchLimit {
			return fmt.Errorf("%w: search.default_limit must be between %d and %d, got %d",
				ErrInvalidValue, MinSearchLimit, MaxSearchLimit, v)
		}
	}
	if c.Search.CandidateCap != nil {
		v := *c.Search.CandidateCap
		if v < MinCandidateCap || v > MaxCandidateCap {
			return fmt.Errorf("%w: search.candidate_cap must be between %d and %d, got %d",
				ErrInvalidValue, MinCandidateCap, MaxCandidateCap, v)
		}
	}
	if c.Limits.MaxContent != nil {
		v := *c.Limits.MaxContent
		if v < MinMaxContent || v > MaxMaxContent {
			return fmt.Errorf("%w: limits.max_content must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxContent, MaxMaxContent, v)
		}
	}
	return nil
}

// SearchLimit returns the default search page size (defaults to 50).
func (c *Config) SearchLimit() int {
	if c.Search.DefaultLimit == nil {
		return DefaultSearchLimit
	}
	return *c.Search.DefaultLimit
}

// CandidateCap returns the full-text candidate cap (defaults to 1000).
// This bounds how many relevance-ranked candidates are fetched before
// relational filters are applied.
func (c *Config) CandidateCap() int {
	if c.Search.CandidateCap == nil {
		return DefaultCandidateCap
	}
	return *c.Search.CandidateCap
}

// MaxContent returns the maximum entry content size in bytes (defaults to 10 MB).
func (c *Config) MaxContent() int64 {
	if c.Limits.MaxContent == nil {
		return DefaultMaxContent
	}
	return *c.Limits.MaxContent
}

// LocalPath returns the path to the local (journal) config file.
func LocalPath() string {
	return filepath.Join(".palimpsest", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file:
// ~/.palimpsest/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".palimpsest", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
