package console

import (
	"strings"
	"unicode"
)

// Editor is the console input line: a rune buffer and a cursor in
// [0, len]. Kill commands copy the removed text to the clipboard.
type Editor struct {
	text      []rune
	cursor    int
	clipboard Clipboard
}

// NewEditor returns an empty editor. A nil clipboard disables kill and paste
// clipboard traffic.
func NewEditor(clipboard Clipboard) *Editor {
	return &Editor{clipboard: clipboard}
}

func (e *Editor) Text() string { return string(e.text) }
func (e *Editor) Cursor() int  { return e.cursor }
func (e *Editor) Len() int     { return len(e.text) }
func (e *Editor) Empty() bool  { return len(e.text) == 0 }

// SetText replaces the line and moves the cursor to its end.
func (e *Editor) SetText(s string) {
	e.text = []rune(s)
	e.cursor = len(e.text)
}

// Clear empties the line.
func (e *Editor) Clear() {
	e.text = e.text[:0]
	e.cursor = 0
}

// Insert puts s at the cursor and advances past it.
func (e *Editor) Insert(s string) {
	if s == "" {
		return
	}
	r := []rune(s)
	tail := append(r, e.text[e.cursor:]...)
	e.text = append(e.text[:e.cursor], tail...)
	e.cursor += len(r)
}

// Paste inserts the clipboard contents with line breaks removed.
func (e *Editor) Paste() error {
	if e.clipboard == nil {
		return nil
	}
	s, err := e.clipboard.ReadText()
	if err != nil {
		return err
	}
	e.Insert(lineBreaks.Replace(s))
	return nil
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

func (e *Editor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *Editor) MoveRight() {
	if e.cursor < len(e.text) {
		e.cursor++
	}
}

func (e *Editor) Home() { e.cursor = 0 }
func (e *Editor) End()  { e.cursor = len(e.text) }

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// ForwardWord moves to the end of the current word, or of the next word when
// the cursor is between words.
func (e *Editor) ForwardWord() {
	n := len(e.text)
	if e.cursor >= n {
		return
	}
	if !isWordRune(e.text[e.cursor]) {
		e.cursor++
		for e.cursor < n && !isWordRune(e.text[e.cursor]) {
			e.cursor++
		}
	}
	for e.cursor < n && isWordRune(e.text[e.cursor]) {
		e.cursor++
	}
}

// BackwardWord moves to the start of the current or previous word.
func (e *Editor) BackwardWord() {
	if e.cursor == 0 {
		return
	}
	if !isWordRune(e.text[e.cursor-1]) {
		e.cursor--
		for e.cursor > 0 && !isWordRune(e.text[e.cursor-1]) {
			e.cursor--
		}
	}
	for e.cursor > 0 && isWordRune(e.text[e.cursor-1]) {
		e.cursor--
	}
}

// BackwardDeleteChar deletes the rune before the cursor.
func (e *Editor) BackwardDeleteChar() {
	if e.cursor == 0 {
		return
	}
	e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
	e.cursor--
}

// ForwardDeleteChar deletes the rune under the cursor.
func (e *Editor) ForwardDeleteChar() {
	if e.cursor >= len(e.text) {
		return
	}
	e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
}

// kill removes text[from:to] and sends it to the clipboard. The cursor is
// left for the caller to place.
func (e *Editor) kill(from, to int) error {
	if from >= to {
		return nil
	}
	killed := string(e.text[from:to])
	e.text = append(e.text[:from], e.text[to:]...)
	if e.clipboard == nil {
		return nil
	}
	return e.clipboard.WriteText(killed)
}

// KillLine kills from the cursor to the end of the line.
func (e *Editor) KillLine() error {
	return e.kill(e.cursor, len(e.text))
}

// BackwardKillLine kills from the start of the line to the cursor.
func (e *Editor) BackwardKillLine() error {
	orig := e.cursor
	e.cursor = 0
	return e.kill(0, orig)
}

// KillWord kills forward to the position ForwardWord would reach.
func (e *Editor) KillWord() error {
	orig := e.cursor
	e.ForwardWord()
	end := e.cursor
	e.cursor = orig
	return e.kill(orig, end)
}

// BackwardKillWord kills back to the position BackwardWord would reach.
func (e *Editor) BackwardKillWord() error {
	orig := e.cursor
	e.BackwardWord()
	return e.kill(e.cursor, orig)
}

// UnixWordRubout kills the word behind the cursor using spaces and tabs as
// boundaries.
func (e *Editor) UnixWordRubout() error {
	if e.cursor == 0 {
		return nil
	}
	orig := e.cursor
	for e.cursor > 0 && isBlank(e.text[e.cursor-1]) {
		e.cursor--
	}
	for e.cursor > 0 && !isBlank(e.text[e.cursor-1]) {
		e.cursor--
	}
	return e.kill(e.cursor, orig)
}

// TransposeTwoChars drags the rune before the cursor over the rune at the
// cursor. At the end of the line it swaps the last two runes; at the start
// it swaps the first two and moves past them.
func (e *Editor) TransposeTwoChars() {
	n := len(e.text)
	if n < 2 {
		return
	}
	switch {
	case e.cursor == 0:
		e.text[0], e.text[1] = e.text[1], e.text[0]
		e.cursor = 2
	case e.cursor < n:
		e.text[e.cursor-1], e.text[e.cursor] = e.text[e.cursor], e.text[e.cursor-1]
		e.cursor++
	default:
		e.text[n-2], e.text[n-1] = e.text[n-1], e.text[n-2]
	}
}

// TransposeTwoWords swaps the word before the cursor with the word after it
// and leaves the cursor after both. At the end of the line the last two
// words are swapped.
func (e *Editor) TransposeTwoWords() {
	if len(e.text) < 3 {
		return
	}
	orig := e.cursor

	e.ForwardWord()
	w2End := e.cursor
	e.BackwardWord()
	w2Beg := e.cursor
	e.BackwardWord()
	w1Beg := e.cursor
	e.ForwardWord()
	w1End := e.cursor

	if w1Beg == w2Beg || w2Beg < w1End {
		e.cursor = orig
		return
	}

	word1 := append([]rune(nil), e.text[w1Beg:w1End]...)
	word2 := append([]rune(nil), e.text[w2Beg:w2End]...)
	between := append([]rune(nil), e.text[w1End:w2Beg]...)

	out := make([]rune, 0, len(e.text))
	out = append(out, e.text[:w1Beg]...)
	out = append(out, word2...)
	out = append(out, between...)
	out = append(out, word1...)
	out = append(out, e.text[w2End:]...)
	e.text = out
	e.cursor = w2End
}
