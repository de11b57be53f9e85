// Package input defines the keyboard events the host forwards to scripts and
// to the developer console, using Windows virtual-key codes.
package input

import (
	"fmt"
	"strings"
)

// Key is a virtual-key code.
type Key uint16

// Virtual-key codes understood by the console and the script API.
const (
	KeyNone      Key = 0x00
	KeyBack      Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0D
	KeyShift     Key = 0x10
	KeyControl   Key = 0x11
	KeyMenu      Key = 0x12
	KeyPause     Key = 0x13
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20
	KeyPageUp    Key = 0x21
	KeyPageDown  Key = 0x22
	KeyEnd       Key = 0x23
	KeyHome      Key = 0x24
	KeyLeft      Key = 0x25
	KeyUp        Key = 0x26
	KeyRight     Key = 0x27
	KeyDown      Key = 0x28
	KeyInsert    Key = 0x2D
	KeyDelete    Key = 0x2E
	Key0         Key = 0x30
	Key9         Key = 0x39
	KeyA         Key = 0x41
	KeyB         Key = 0x42
	KeyD         Key = 0x44
	KeyE         Key = 0x45
	KeyF         Key = 0x46
	KeyH         Key = 0x48
	KeyK         Key = 0x4B
	KeyL         Key = 0x4C
	KeyM         Key = 0x4D
	KeyN         Key = 0x4E
	KeyP         Key = 0x50
	KeyT         Key = 0x54
	KeyU         Key = 0x55
	KeyV         Key = 0x56
	KeyW         Key = 0x57
	KeyZ         Key = 0x5A
	KeyNumPad0   Key = 0x60
	KeyNumPad9   Key = 0x69
	KeyMultiply  Key = 0x6A
	KeyAdd       Key = 0x6B
	KeySubtract  Key = 0x6D
	KeyDecimal   Key = 0x6E
	KeyDivide    Key = 0x6F
	KeyF1        Key = 0x70
	KeyF2        Key = 0x71
	KeyF3        Key = 0x72
	KeyF4        Key = 0x73
	KeyF5        Key = 0x74
	KeyF6        Key = 0x75
	KeyF7        Key = 0x76
	KeyF8        Key = 0x77
	KeyF9        Key = 0x78
	KeyF10       Key = 0x79
	KeyF11       Key = 0x7A
	KeyF12       Key = 0x7B
	KeyF13       Key = 0x7C
	KeyF14       Key = 0x7D
	KeyF15       Key = 0x7E
	KeyF16       Key = 0x7F
	KeyF17       Key = 0x80
	KeyF18       Key = 0x81
	KeyF19       Key = 0x82
	KeyF20       Key = 0x83
	KeyF21       Key = 0x84
	KeyF22       Key = 0x85
	KeyF23       Key = 0x86
	KeyF24       Key = 0x87
	KeyOem1      Key = 0xBA // ;:
	KeyOemPlus   Key = 0xBB // =+
	KeyOemComma  Key = 0xBC // ,<
	KeyOemMinus  Key = 0xBD // -_
	KeyOemPeriod Key = 0xBE // .>
	KeyOem2      Key = 0xBF // /?
	KeyOem3      Key = 0xC0 // `~
	KeyOem4      Key = 0xDB // [{
	KeyOem5      Key = 0xDC // \|
	KeyOem6      Key = 0xDD // ]}
	KeyOem7      Key = 0xDE // '"
)

// Modifiers is the set of modifier keys held during a key event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
)

// Shift reports whether a shift key is held.
func (m Modifiers) Shift() bool { return m&ModShift != 0 }

// Control reports whether a control key is held.
func (m Modifiers) Control() bool { return m&ModControl != 0 }

// Alt reports whether an alt key is held.
func (m Modifiers) Alt() bool { return m&ModAlt != 0 }

func (m Modifiers) String() string {
	var parts []string
	if m.Control() {
		parts = append(parts, "Control")
	}
	if m.Shift() {
		parts = append(parts, "Shift")
	}
	if m.Alt() {
		parts = append(parts, "Alt")
	}
	return strings.Join(parts, "+")
}

// KeyEvent is one raw key transition as reported by the host.
type KeyEvent struct {
	Key  Key
	Mods Modifiers
	Down bool
}

func (e KeyEvent) String() string {
	dir := "up"
	if e.Down {
		dir = "down"
	}
	if e.Mods == 0 {
		return fmt.Sprintf("%s %s", e.Key, dir)
	}
	return fmt.Sprintf("%s+%s %s", e.Mods, e.Key, dir)
}

var namedKeys = map[Key]string{
	KeyBack:      "Back",
	KeyTab:       "Tab",
	KeyEnter:     "Enter",
	KeyShift:     "ShiftKey",
	KeyControl:   "ControlKey",
	KeyMenu:      "Menu",
	KeyPause:     "Pause",
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyEnd:       "End",
	KeyHome:      "Home",
	KeyLeft:      "Left",
	KeyUp:        "Up",
	KeyRight:     "Right",
	KeyDown:      "Down",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
	KeyMultiply:  "Multiply",
	KeyAdd:       "Add",
	KeySubtract:  "Subtract",
	KeyDecimal:   "Decimal",
	KeyDivide:    "Divide",
	KeyOem1:      "Oem1",
	KeyOemPlus:   "Oemplus",
	KeyOemComma:  "Oemcomma",
	KeyOemMinus:  "OemMinus",
	KeyOemPeriod: "OemPeriod",
	KeyOem2:      "Oem2",
	KeyOem3:      "Oem3",
	KeyOem4:      "Oem4",
	KeyOem5:      "Oem5",
	KeyOem6:      "Oem6",
	KeyOem7:      "Oem7",
}

// String returns the key's name, e.g. "A", "D5", "F4", "NumPad0" or "PageUp".
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + (k - KeyA)))
	case k >= Key0 && k <= Key9:
		return fmt.Sprintf("D%d", k-Key0)
	case k >= KeyNumPad0 && k <= KeyNumPad9:
		return fmt.Sprintf("NumPad%d", k-KeyNumPad0)
	case k >= KeyF1 && k <= KeyF24:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	if name, ok := namedKeys[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(0x%02X)", uint16(k))
}

// ParseKey resolves a key name as produced by Key.String. Matching is case
// insensitive and single letters or digits are accepted as-is.
func ParseKey(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return KeyNone, fmt.Errorf("%w: empty key name", ErrUnknownKey)
	}
	upper := strings.ToUpper(trimmed)
	if len(upper) == 1 {
		c := upper[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return KeyA + Key(c-'A'), nil
		case c >= '0' && c <= '9':
			return Key0 + Key(c-'0'), nil
		}
	}
	for k := Key(1); k <= 0xFE; k++ {
		if strings.EqualFold(k.String(), trimmed) {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}
