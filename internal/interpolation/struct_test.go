package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptEntry struct {
	Name string
	Path string `env_interpolation:"yes"`
}

type hostSection struct {
	ScriptsDir string   `env_interpolation:"yes"`
	Extra      []string `env_interpolation:"yes"`
	ReloadKey  string
}

type rootConfig struct {
	Host    hostSection   `env_interpolation:"yes"`
	Scripts []scriptEntry `env_interpolation:"yes"`
	Skipped hostSection
	hidden  string `env_interpolation:"yes"`
}

func TestInterpolateStruct(t *testing.T) {
	t.Setenv("SH_ROOT", "/opt/game")

	cfg := &rootConfig{
		Host: hostSection{
			ScriptsDir: "${SH_ROOT}/scripts",
			Extra:      []string{"${SH_ROOT}/a", "b"},
			ReloadKey:  "${SH_ROOT}",
		},
		Scripts: []scriptEntry{{Name: "${SH_ROOT}", Path: "${SH_ROOT}/x.lua"}},
		Skipped: hostSection{ScriptsDir: "${SH_ROOT}"},
		hidden:  "${SH_ROOT}",
	}
	require.NoError(t, InterpolateStruct(cfg))

	assert.Equal(t, "/opt/game/scripts", cfg.Host.ScriptsDir)
	assert.Equal(t, []string{"/opt/game/a", "b"}, cfg.Host.Extra)
	assert.Equal(t, "${SH_ROOT}", cfg.Host.ReloadKey, "untagged field")
	assert.Equal(t, "${SH_ROOT}", cfg.Scripts[0].Name, "untagged field")
	assert.Equal(t, "/opt/game/x.lua", cfg.Scripts[0].Path)
	assert.Equal(t, "${SH_ROOT}", cfg.Skipped.ScriptsDir, "untagged struct")
	assert.Equal(t, "${SH_ROOT}", cfg.hidden, "unexported field")
}

func TestInterpolateStruct_Errors(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, InterpolateStruct(nil))
	})

	t.Run("not a pointer", func(t *testing.T) {
		assert.Error(t, InterpolateStruct(rootConfig{}))
	})

	t.Run("pointer to non-struct", func(t *testing.T) {
		s := "x"
		assert.Error(t, InterpolateStruct(&s))
	})

	t.Run("missing variables are collected", func(t *testing.T) {
		cfg := &rootConfig{
			Host:    hostSection{ScriptsDir: "${SH_NOPE_A}"},
			Scripts: []scriptEntry{{Path: "${SH_NOPE_B}"}},
		}
		err := InterpolateStruct(cfg)
		require.ErrorIs(t, err, ErrUndefinedVar)
		assert.Contains(t, err.Error(), "field Host: field ScriptsDir")
		assert.Contains(t, err.Error(), "field Scripts[0]: field Path")
	})
}
