// Package config loads graphrank settings from a TOML file.
//
// Settings are resolved in three layers: built-in defaults, then the config
// file, then command-line flags (applied by the CLI). A missing file is not
// an error.
//
//	strategy = "list"
//
//	[cache]
//	enabled = true
//	backend = "memory"
//	dir = "/tmp/graphrank-cache"
//	ttl = "24h"
//
//	[log]
//	level = "debug"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/pipeline"
	"github.com/matzehuels/graphrank/pkg/ranking"
)

// AppName names the config and cache directories.
const AppName = "graphrank"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Cache backends accepted in the [cache] table. An empty backend lets each
// command pick: run uses the file cache, inspect the memory cache.
const (
	CacheBackendFile   = "file"
	CacheBackendMemory = "memory"
)

// CacheBackends lists the named cache backends.
var CacheBackends = []string{CacheBackendFile, CacheBackendMemory}

// Log levels accepted in the [log] table.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the resolved configuration.
type Config struct {
	Strategy string      `toml:"strategy"`
	Source   int         `toml:"source"`
	Cache    CacheConfig `toml:"cache"`
	Log      LogConfig   `toml:"log"`
}

// CacheConfig controls the fitness cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	Backend string   `toml:"backend,omitempty"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string ("36h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Strategy: pipeline.DefaultStrategy,
		Cache: CacheConfig{
			Enabled: false,
			TTL:     Duration{pipeline.DefaultCacheTTL},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Path returns the default config file location:
// $XDG_CONFIG_HOME/graphrank/config.toml, else ~/.config/graphrank/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the default cache directory (~/.cache/graphrank/ or the
// XDG equivalent).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads path over the defaults. An empty path means the default
// location. A missing file yields the defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return cfg, nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates the result.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := apperrors.ValidateStrategy(c.Strategy, ranking.Strategies); err != nil {
		return err
	}
	if c.Source < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "source cannot be negative, got %d", c.Source)
	}
	if c.Cache.Backend != "" && !slices.Contains(CacheBackends, c.Cache.Backend) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q (valid: file, memory)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	for _, l := range LogLevels {
		if c.Log.Level == l {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
}

// ResolvedCacheDir returns Cache.Dir, or the default cache directory when unset.
func (c Config) ResolvedCacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
