package console

import (
	"context"

	"github.com/atlanticdynamic/scripthook/internal/input"
)

// HandleKey applies a key event to the console. It reports whether the
// console consumed the event, which is the case for every event while open.
// Only key-down events edit the input.
func (c *Console) HandleKey(ctx context.Context, ev input.KeyEvent) bool {
	if !c.open {
		return false
	}
	if !ev.Down {
		return true
	}

	mods := ev.Mods
	e := c.editor
	var err error

	switch ev.Key {
	case input.KeyPageUp:
		c.PageUp()
	case input.KeyPageDown:
		c.PageDown()
	case input.KeyBack:
		if mods.Alt() {
			err = e.BackwardKillWord()
		} else {
			e.BackwardDeleteChar()
		}
	case input.KeyDelete:
		e.ForwardDeleteChar()
	case input.KeyLeft:
		if mods.Control() {
			e.BackwardWord()
		} else {
			e.MoveLeft()
		}
	case input.KeyRight:
		if mods.Control() {
			e.ForwardWord()
		} else {
			e.MoveRight()
		}
	case input.KeyInsert:
		if mods.Shift() {
			err = e.Paste()
		}
	case input.KeyHome:
		e.Home()
	case input.KeyEnd:
		e.End()
	case input.KeyUp:
		c.HistoryUp()
	case input.KeyDown:
		c.HistoryDown()
	case input.KeyEnter:
		c.Submit(ctx)
	case input.KeyEscape:
		c.SetOpen(false)
	default:
		if !c.handleChord(ctx, ev, &err) {
			e.Insert(input.Translate(ev.Key, mods))
		}
	}

	if err != nil {
		c.logger.Debug("Clipboard operation failed", "key", ev.String(), "error", err)
	}
	return true
}

// handleChord runs the readline style Control and Alt bindings. It returns
// false when ev is not one of them.
func (c *Console) handleChord(ctx context.Context, ev input.KeyEvent, err *error) bool {
	e := c.editor
	ctrl, alt := ev.Mods.Control(), ev.Mods.Alt()
	if !ctrl && !alt {
		return false
	}

	switch {
	case ev.Key == input.KeyB && alt:
		e.BackwardWord()
	case ev.Key == input.KeyB && ctrl:
		e.MoveLeft()
	case ev.Key == input.KeyD && alt:
		*err = e.KillWord()
	case ev.Key == input.KeyD && ctrl:
		e.ForwardDeleteChar()
	case ev.Key == input.KeyF && alt:
		e.ForwardWord()
	case ev.Key == input.KeyF && ctrl:
		e.MoveRight()
	case ev.Key == input.KeyH && ctrl:
		e.BackwardDeleteChar()
	case ev.Key == input.KeyA && ctrl:
		e.Home()
	case ev.Key == input.KeyE && ctrl:
		e.End()
	case ev.Key == input.KeyP && ctrl:
		c.HistoryUp()
	case ev.Key == input.KeyN && ctrl:
		c.HistoryDown()
	case ev.Key == input.KeyK && ctrl:
		*err = e.KillLine()
	case ev.Key == input.KeyU && ctrl:
		*err = e.BackwardKillLine()
	case ev.Key == input.KeyM && ctrl:
		c.Submit(ctx)
	case ev.Key == input.KeyL && ctrl:
		c.Clear()
	case ev.Key == input.KeyT && alt:
		e.TransposeTwoWords()
	case ev.Key == input.KeyT && ctrl:
		e.TransposeTwoChars()
	case ev.Key == input.KeyV && ctrl:
		*err = e.Paste()
	case ev.Key == input.KeyW && ctrl:
		*err = e.UnixWordRubout()
	default:
		return false
	}
	return true
}
