package scripts

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the per-script key/value store kept in a TOML file next to
// the script. Section and key names are case-insensitive.
type Settings struct {
	path string

	mu     sync.RWMutex
	values map[string]map[string]any
}

// SettingsPath returns the settings file used for the script at scriptPath.
func SettingsPath(scriptPath string) string {
	return strings.TrimSuffix(scriptPath, filepath.Ext(scriptPath)) + ".toml"
}

// LoadSettings reads the settings file at path. A missing file yields empty
// settings that will be created on Save.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{path: path, values: make(map[string]map[string]any)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSettingsLoad, err)
	}

	raw := make(map[string]any)
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSettingsLoad, path, err)
	}
	for section, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			// Keys outside a table belong to the unnamed section.
			s.set("", section, v)
			continue
		}
		for key, value := range table {
			s.set(section, key, value)
		}
	}
	return s, nil
}

func (s *Settings) Path() string { return s.path }

// GetValue returns the stored value, or def when the key is not set.
func (s *Settings) GetValue(section, key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[strings.ToLower(section)][strings.ToLower(key)]; ok {
		return v
	}
	return def
}

// SetValue stores value in memory. Call Save to persist it.
func (s *Settings) SetValue(section, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(section, key, value)
}

func (s *Settings) set(section, key string, value any) {
	section, key = strings.ToLower(section), strings.ToLower(key)
	table, ok := s.values[section]
	if !ok {
		table = make(map[string]any)
		s.values[section] = table
	}
	table[key] = value
}

// Sections returns a copy of every section.
func (s *Settings) Sections() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]any, len(s.values))
	for name, table := range s.values {
		out[name] = maps.Clone(table)
	}
	return out
}

// Save writes the settings back to their file.
func (s *Settings) Save() error {
	sections := s.Sections()
	doc := make(map[string]any, len(sections))
	for name, table := range sections {
		if name == "" {
			maps.Copy(doc, table)
			continue
		}
		doc[name] = table
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsSave, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsSave, err)
	}
	return nil
}
