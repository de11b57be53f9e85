package input

import "errors"

// ErrUnknownKey is returned by ParseKey for names that match no key.
var ErrUnknownKey = errors.New("unknown key")

// oemChars maps punctuation keys to their unshifted and shifted characters on
// a US keyboard layout.
var oemChars = map[Key][2]string{
	KeySpace:     {" ", " "},
	KeyOem1:      {";", ":"},
	KeyOemPlus:   {"=", "+"},
	KeyOemComma:  {",", "<"},
	KeyOemMinus:  {"-", "_"},
	KeyOemPeriod: {".", ">"},
	KeyOem2:      {"/", "?"},
	KeyOem3:      {"`", "~"},
	KeyOem4:      {"[", "{"},
	KeyOem5:      {"\\", "|"},
	KeyOem6:      {"]", "}"},
	KeyOem7:      {"'", "\""},
	KeyMultiply:  {"*", "*"},
	KeyAdd:       {"+", "+"},
	KeySubtract:  {"-", "-"},
	KeyDecimal:   {".", "."},
	KeyDivide:    {"/", "/"},
}

var shiftedDigits = [10]string{")", "!", "@", "#", "$", "%", "^", "&", "*", "("}

// Translate returns the text a key press produces on a US layout given the
// held modifiers. Control chords produce no text; Alt alone does not change
// the produced character. Non-printing keys return an empty string.
func Translate(key Key, mods Modifiers) string {
	if mods.Control() {
		return ""
	}
	shift := mods.Shift()

	switch {
	case key >= KeyA && key <= KeyZ:
		c := rune('a' + (key - KeyA))
		if shift {
			c = rune('A' + (key - KeyA))
		}
		return string(c)
	case key >= Key0 && key <= Key9:
		if shift {
			return shiftedDigits[key-Key0]
		}
		return string(rune('0' + (key - Key0)))
	case key >= KeyNumPad0 && key <= KeyNumPad9:
		return string(rune('0' + (key - KeyNumPad0)))
	}

	if chars, ok := oemChars[key]; ok {
		if shift {
			return chars[1]
		}
		return chars[0]
	}
	return ""
}
