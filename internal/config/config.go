package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional rcpy configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Nil means "not set".
type DefaultsConfig struct {
	Workers      *int     `toml:"workers,omitempty"`
	SingleThread *bool    `toml:"single_thread,omitempty"`
	Recursive    *bool    `toml:"recursive,omitempty"`
	Exclude      []string `toml:"exclude,omitempty"`
	Verify       *bool    `toml:"verify,omitempty"`
	BWLimit      *string  `toml:"bwlimit,omitempty"`
	TUI          *bool    `toml:"tui,omitempty"`
	NoProgress   *bool    `toml:"no_progress,omitempty"`
}

// ThemeConfig holds optional color overrides for the TUI.
type ThemeConfig struct {
	Accent  *string `toml:"accent,omitempty"`
	Success *string `toml:"success,omitempty"`
	Failure *string `toml:"failure,omitempty"`
	Muted   *string `toml:"muted,omitempty"`
	Bright  *string `toml:"bright,omitempty"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "rcpy", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Defaults.Workers != nil && *cfg.Defaults.Workers < 0 {
		return Config{}, fmt.Errorf("parse %s: workers must not be negative", path)
	}
	if cfg.Defaults.BWLimit != nil {
		if _, err := ParseSize(*cfg.Defaults.BWLimit); err != nil {
			return Config{}, fmt.Errorf("parse %s: bwlimit: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories.
// An existing file is only replaced when overwrite is set.
func Save(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // config is not secret
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Example returns a Config populated with the built-in defaults, suitable
// for writing out as a starting point.
func Example() Config {
	workers := 0
	recursive := true
	verify := false
	return Config{
		Defaults: DefaultsConfig{
			Workers:   &workers,
			Recursive: &recursive,
			Exclude:   []string{},
			Verify:    &verify,
		},
	}
}
