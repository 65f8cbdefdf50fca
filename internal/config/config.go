// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

// Defaults.
const (
	DefaultMaxProblems   = 100
	DefaultMaxIndexFiles = 10000
	DefaultLogLevel      = "info"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the contents of the configuration file.
type Config struct {
	Server    ServerConfig     `toml:"server"`
	Languages []LanguageConfig `toml:"languages"`
}

// ServerConfig holds server-wide settings.
type ServerConfig struct {
	// MaxProblems caps the diagnostics published per document.
	MaxProblems int `toml:"max_problems"`
	// IndexWorkspace scans the workspace folders on startup. Defaults to true.
	IndexWorkspace *bool  `toml:"index_workspace"`
	MaxIndexFiles  int    `toml:"max_index_files"`
	LogLevel       string `toml:"log_level"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// LanguageConfig overrides the file patterns of a built-in language, or
// disables it.
type LanguageConfig struct {
	ID       string   `toml:"id"`
	Patterns []string `toml:"patterns"`
	Enabled  *bool    `toml:"enabled"`
}

// IsEnabled reports whether the language is enabled. Unset means enabled.
func (l LanguageConfig) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

// ShouldIndexWorkspace reports whether workspace folders are scanned.
func (s ServerConfig) ShouldIndexWorkspace() bool {
	return s.IndexWorkspace == nil || *s.IndexWorkspace
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path, applies defaults and validates the result. An empty path
// returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML document, applies defaults and validates the result.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrInvalid, undecoded[0])
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.MaxProblems == 0 {
		cfg.Server.MaxProblems = DefaultMaxProblems
	}
	if cfg.Server.MaxIndexFiles == 0 {
		cfg.Server.MaxIndexFiles = DefaultMaxIndexFiles
	}
	if strings.TrimSpace(cfg.Server.LogLevel) == "" {
		cfg.Server.LogLevel = DefaultLogLevel
	}
	for i := range cfg.Languages {
		cfg.Languages[i].ID = strings.TrimSpace(cfg.Languages[i].ID)
	}
}

func validate(cfg *Config) error {
	if cfg.Server.MaxProblems < 0 {
		return fmt.Errorf("%w: server.max_problems must not be negative", ErrInvalid)
	}
	if cfg.Server.MaxIndexFiles < 0 {
		return fmt.Errorf("%w: server.max_index_files must not be negative", ErrInvalid)
	}
	if _, err := Verbosity(cfg.Server.LogLevel); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, l := range cfg.Languages {
		if l.ID == "" {
			return fmt.Errorf("%w: language without id", ErrInvalid)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: language %q configured twice", ErrInvalid, l.ID)
		}
		seen[l.ID] = true
		for _, p := range l.Patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				return fmt.Errorf("%w: language %q: pattern %q: %v", ErrInvalid, l.ID, p, err)
			}
		}
	}
	return nil
}

// Verbosity maps a log level name to a commonlog verbosity.
func Verbosity(level string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return -4, nil
	case "error":
		return -2, nil
	case "warn", "warning":
		return -1, nil
	case "info", "":
		return 1, nil
	case "debug":
		return 2, nil
	}
	return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalid, level)
}
