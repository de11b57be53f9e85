// Package config loads and validates the scripthook TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/scripthook/internal/config/errz"
	"github.com/atlanticdynamic/scripthook/internal/interpolation"
	"github.com/pelletier/go-toml/v2"
)

const (
	VersionLatest  = "v1"
	VersionUnknown = "unknown"
)

// Config is the root of the configuration file.
type Config struct {
	Version string         `toml:"version"`
	Logging LoggingConfig  `toml:"logging" env_interpolation:"yes"`
	Host    HostConfig     `toml:"host" env_interpolation:"yes"`
	Console ConsoleConfig  `toml:"console"`
	Scripts []ScriptConfig `toml:"scripts" env_interpolation:"yes"`
}

// NewDefault returns a config with every default applied, for running
// without a config file.
func NewDefault() *Config {
	cfg := &Config{Version: VersionLatest}
	cfg.applyDefaults()
	return cfg
}

// NewConfig loads configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf("%w: %s, only .toml is supported", ErrUnsupportedExtension, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	cfg, err := NewConfigFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	// Relative script paths are resolved against the config file's directory.
	cfg.resolvePaths(filepath.Dir(filePath))
	return cfg, nil
}

// NewConfigFromReader loads configuration from an io.Reader providing TOML data
func NewConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config data: %w", ErrFailedToLoadConfig, err)
	}
	return NewConfigFromBytes(data)
}

// NewConfigFromBytes loads configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: failed to parse TOML config: %w", ErrFailedToLoadConfig, err)
	}
	if versionCheck.Version == "" {
		versionCheck.Version = VersionLatest
	}
	if versionCheck.Version != VersionLatest {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, versionCheck.Version)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrFailedToLoadConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	cfg.Version = versionCheck.Version
	// Paths may reference ${VAR} or ${VAR:default}.
	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Host.applyDefaults()
	c.Console.applyDefaults()
	for i := range c.Scripts {
		c.Scripts[i].applyDefaults()
	}
}

func (c *Config) resolvePaths(baseDir string) {
	if !filepath.IsAbs(c.Host.ScriptsDir) {
		c.Host.ScriptsDir = filepath.Join(baseDir, c.Host.ScriptsDir)
	}
	for i := range c.Scripts {
		if !filepath.IsAbs(c.Scripts[i].Path) {
			c.Scripts[i].Path = filepath.Join(baseDir, c.Scripts[i].Path)
		}
	}
	if c.Logging.Directory != "" && !filepath.IsAbs(c.Logging.Directory) {
		c.Logging.Directory = filepath.Join(baseDir, c.Logging.Directory)
	}
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = VersionUnknown
	}
	if c.Version != VersionLatest {
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	errs := []error{
		c.Logging.Validate(),
		c.Host.Validate(),
		c.Console.Validate(),
	}

	names := make(map[string]bool, len(c.Scripts))
	for i := range c.Scripts {
		s := &c.Scripts[i]
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scripts[%d]: %w", i, err))
		}
		if s.Name == "" {
			continue
		}
		if names[s.Name] {
			errs = append(errs, fmt.Errorf("scripts[%d]: %w: %s", i, errz.ErrDuplicateName, s.Name))
		}
		names[s.Name] = true
	}

	return errors.Join(errs...)
}

// EnabledScripts returns the script entries that are not disabled.
func (c *Config) EnabledScripts() []ScriptConfig {
	out := make([]ScriptConfig, 0, len(c.Scripts))
	for _, s := range c.Scripts {
		if !s.Disabled {
			out = append(out, s)
		}
	}
	return out
}

// DisabledPaths returns the paths of disabled script entries, which the
// loader skips even when they are found by the directory scan.
func (c *Config) DisabledPaths() map[string]bool {
	out := make(map[string]bool)
	for _, s := range c.Scripts {
		if s.Disabled {
			out[filepath.Clean(s.Path)] = true
		}
	}
	return out
}
