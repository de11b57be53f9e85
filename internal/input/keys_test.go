package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyA, "A"},
		{KeyZ, "Z"},
		{Key0 + 5, "D5"},
		{KeyNumPad0 + 3, "NumPad3"},
		{KeyF1 + 3, "F4"},
		{KeyF5, "F5"},
		{KeyF12, "F12"},
		{KeyF23, "F23"},
		{KeyInsert, "Insert"},
		{KeyPageUp, "PageUp"},
		{Key(0xFF), "Key(0xFF)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestParseKey(t *testing.T) {
	t.Run("round trips names", func(t *testing.T) {
		for _, k := range []Key{KeyA, Key0 + 7, KeyF1 + 3, KeyNumPad0 + 5, KeyInsert, KeyOemMinus, KeyEscape} {
			got, err := ParseKey(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
	})

	t.Run("function keys", func(t *testing.T) {
		named := []Key{
			KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
			KeyF13, KeyF14, KeyF15, KeyF16, KeyF17, KeyF18, KeyF19, KeyF20, KeyF21, KeyF22, KeyF23, KeyF24,
		}
		for i, k := range named {
			assert.Equal(t, KeyF1+Key(i), k)
			got, err := ParseKey(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := ParseKey("f4")
		require.NoError(t, err)
		assert.Equal(t, KeyF1+3, got)
	})

	t.Run("single characters", func(t *testing.T) {
		got, err := ParseKey("q")
		require.NoError(t, err)
		assert.Equal(t, KeyA+('Q'-'A'), got)

		got, err = ParseKey("3")
		require.NoError(t, err)
		assert.Equal(t, Key0+3, got)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseKey("NotAKey")
		require.ErrorIs(t, err, ErrUnknownKey)

		_, err = ParseKey("  ")
		require.ErrorIs(t, err, ErrUnknownKey)
	})
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		mods Modifiers
		want string
	}{
		{"lower letter", KeyA, 0, "a"},
		{"upper letter", KeyA, ModShift, "A"},
		{"digit", Key0 + 1, 0, "1"},
		{"shifted digit", Key0 + 1, ModShift, "!"},
		{"shifted nine", Key0 + 9, ModShift, "("},
		{"numpad", KeyNumPad0 + 7, 0, "7"},
		{"space", KeySpace, 0, " "},
		{"period", KeyOemPeriod, 0, "."},
		{"shifted quote", KeyOem7, ModShift, "\""},
		{"alt keeps character", KeyB, ModAlt, "b"},
		{"control produces nothing", KeyB, ModControl, ""},
		{"altgr produces nothing", KeyB, ModControl | ModAlt, ""},
		{"non printing", KeyF1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Translate(tt.key, tt.mods))
		})
	}
}

func TestKeyEvent_String(t *testing.T) {
	assert.Equal(t, "A down", KeyEvent{Key: KeyA, Down: true}.String())
	assert.Equal(t, "Control+Shift+T up", KeyEvent{Key: KeyT, Mods: ModControl | ModShift}.String())
}
