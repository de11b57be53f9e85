package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atlanticdynamic/scripthook/internal/config/errz"
	"github.com/atlanticdynamic/scripthook/internal/input"
)

// Default values applied to unset fields.
const (
	DefaultFrameInterval    = 16 * time.Millisecond
	DefaultReloadKey        = "Insert"
	DefaultScriptsDir       = "scripts"
	DefaultMaxParallelLoads = 4
	DefaultOpenKey          = "F4"
	DefaultLinesPerPage     = 16
	DefaultCloseBlock       = 200 * time.Millisecond
	DefaultLanguage         = LanguageGo
	DefaultCompileTimeout   = 5 * time.Second
	DefaultEntrypoint       = "main"
)

// Console expression languages.
const (
	LanguageGo       = "go"
	LanguageLua      = "lua"
	LanguageRisor    = "risor"
	LanguageStarlark = "starlark"
)

// Script runtimes, chosen by file extension.
const (
	RuntimeLua      = "lua"
	RuntimeRisor    = "risor"
	RuntimeStarlark = "starlark"
	RuntimeExtism   = "extism"
)

var runtimeExtensions = map[string]string{
	".lua":  RuntimeLua,
	".risor": RuntimeRisor,
	".star": RuntimeStarlark,
	".wasm": RuntimeExtism,
}

// RuntimeForPath returns the runtime that executes the script at path, or ""
// if the extension is not recognized.
func RuntimeForPath(path string) string {
	return runtimeExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScriptExtensions lists every recognized script file extension.
func ScriptExtensions() []string {
	return []string{".lua", ".risor", ".star", ".wasm"}
}

// HostConfig controls the frame loop and script discovery.
type HostConfig struct {
	FrameInterval    Duration `toml:"frame_interval"`
	ReloadKey        string   `toml:"reload_key"`
	ScriptsDir       string   `toml:"scripts_dir" env_interpolation:"yes"`
	MaxParallelLoads int      `toml:"max_parallel_loads"`
}

func (h *HostConfig) applyDefaults() {
	if h.FrameInterval == 0 {
		h.FrameInterval = FromDuration(DefaultFrameInterval)
	}
	if h.ReloadKey == "" {
		h.ReloadKey = DefaultReloadKey
	}
	if h.ScriptsDir == "" {
		h.ScriptsDir = DefaultScriptsDir
	}
	if h.MaxParallelLoads == 0 {
		h.MaxParallelLoads = DefaultMaxParallelLoads
	}
}

// Validate checks the host section.
func (h *HostConfig) Validate() error {
	var errs []error
	if h.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: host.frame_interval must be positive", errz.ErrInvalidValue))
	}
	if _, err := input.ParseKey(h.ReloadKey); err != nil {
		errs = append(errs, fmt.Errorf("%w: host.reload_key: %w", errz.ErrInvalidKey, err))
	}
	if h.MaxParallelLoads < 1 {
		errs = append(errs, fmt.Errorf("%w: host.max_parallel_loads must be at least 1", errz.ErrInvalidValue))
	}
	return errors.Join(errs...)
}

// ReloadKeyCode returns the parsed reload key.
func (h *HostConfig) ReloadKeyCode() input.Key {
	k, _ := input.ParseKey(h.ReloadKey)
	return k
}

// ConsoleConfig controls the developer console.
type ConsoleConfig struct {
	OpenKey        string   `toml:"open_key"`
	LinesPerPage   int      `toml:"lines_per_page"`
	CloseBlock     Duration `toml:"close_block"`
	Language       string   `toml:"language"`
	CompileTimeout Duration `toml:"compile_timeout"`
}

func (c *ConsoleConfig) applyDefaults() {
	if c.OpenKey == "" {
		c.OpenKey = DefaultOpenKey
	}
	if c.LinesPerPage == 0 {
		c.LinesPerPage = DefaultLinesPerPage
	}
	if c.CloseBlock == 0 {
		c.CloseBlock = FromDuration(DefaultCloseBlock)
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.CompileTimeout == 0 {
		c.CompileTimeout = FromDuration(DefaultCompileTimeout)
	}
}

// Validate checks the console section.
func (c *ConsoleConfig) Validate() error {
	var errs []error
	if _, err := input.ParseKey(c.OpenKey); err != nil {
		errs = append(errs, fmt.Errorf("%w: console.open_key: %w", errz.ErrInvalidKey, err))
	}
	if c.LinesPerPage < 1 {
		errs = append(errs, fmt.Errorf("%w: console.lines_per_page must be at least 1", errz.ErrInvalidValue))
	}
	if c.CloseBlock < 0 {
		errs = append(errs, fmt.Errorf("%w: console.close_block must not be negative", errz.ErrInvalidValue))
	}
	if c.CompileTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: console.compile_timeout must be positive", errz.ErrInvalidValue))
	}
	switch c.Language {
	case LanguageGo, LanguageLua, LanguageRisor, LanguageStarlark:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrInvalidLanguage, c.Language))
	}
	return errors.Join(errs...)
}

// OpenKeyCode returns the parsed console toggle key.
func (c *ConsoleConfig) OpenKeyCode() input.Key {
	k, _ := input.ParseKey(c.OpenKey)
	return k
}

// ScriptConfig declares one script outside the scanned scripts directory, or
// overrides the defaults of a scanned one with the same path.
type ScriptConfig struct {
	Name       string   `toml:"name"`
	Path       string   `toml:"path" env_interpolation:"yes"`
	Interval   Duration `toml:"interval"`
	Entrypoint string   `toml:"entrypoint"`
	Disabled   bool     `toml:"disabled"`
}

func (s *ScriptConfig) applyDefaults() {
	if s.Name == "" && s.Path != "" {
		base := filepath.Base(s.Path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if s.Entrypoint == "" && s.Runtime() == RuntimeExtism {
		s.Entrypoint = DefaultEntrypoint
	}
}

// Runtime returns the runtime chosen by the script's file extension.
func (s *ScriptConfig) Runtime() string {
	return RuntimeForPath(s.Path)
}

// Validate checks one script entry.
func (s *ScriptConfig) Validate() error {
	var errs []error
	if s.Path == "" {
		errs = append(errs, fmt.Errorf("%w: path", errz.ErrMissingRequiredField))
	} else if s.Runtime() == "" {
		errs = append(errs, fmt.Errorf("%w: %s", errz.ErrInvalidRuntime, filepath.Ext(s.Path)))
	}
	if s.Name == "" {
		errs = append(errs, errz.ErrEmptyName)
	}
	if s.Interval < 0 {
		errs = append(errs, fmt.Errorf("%w: interval must not be negative", errz.ErrInvalidValue))
	}
	return errors.Join(errs...)
}
