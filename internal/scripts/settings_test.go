package scripts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("dir", "trainer.toml"), SettingsPath(filepath.Join("dir", "trainer.lua")))
}

func TestSettings_MissingFile(t *testing.T) {
	t.Parallel()

	s, err := LoadSettings(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, "fallback", s.GetValue("main", "key", "fallback"))
	assert.Empty(t, s.Sections())
}

func TestSettings_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "script.toml")
	s, err := LoadSettings(path)
	require.NoError(t, err)

	s.SetValue("Keys", "Toggle", "F6")
	s.SetValue("keys", "count", int64(3))
	s.SetValue("", "enabled", true)
	require.NoError(t, s.Save())

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "F6", loaded.GetValue("KEYS", "toggle", nil))
	assert.Equal(t, int64(3), loaded.GetValue("keys", "count", nil))
	assert.Equal(t, true, loaded.GetValue("", "enabled", false))
}

func TestSettings_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("= nope"), 0o644))
	_, err := LoadSettings(path)
	require.ErrorIs(t, err, ErrSettingsLoad)
}
