package editor

import (
	"inlay/internal/keys"
	"inlay/internal/textpos"
)

// RegisterCommand binds a chord to a command. Commands run before default
// key handling; a later registration on the same chord replaces the
// earlier one.
func (s *Session) RegisterCommand(c keys.Chord, fn Command) {
	s.mu.Lock()
	s.commands[c] = fn
	s.mu.Unlock()
}

// RegisterCommands binds a chord table in one call.
func (s *Session) RegisterCommands(table map[keys.Chord]Command) {
	s.mu.Lock()
	for c, fn := range table {
		s.commands[c] = fn
	}
	s.mu.Unlock()
}

// HandleKey feeds one key press to the session. Registered commands run
// first; a command returning false falls through to the default handling
// (cursor movement, character insertion, backspace). Returns true when the
// key was consumed. r carries the raw character for insertion and may be 0
// for named keys.
func (s *Session) HandleKey(c keys.Chord, r rune) bool {
	s.mu.Lock()
	fn := s.commands[c]
	s.mu.Unlock()

	if fn != nil && fn() {
		return true
	}
	return s.defaultKey(c, r)
}

// defaultKey is the built-in key behavior that runs when no registered
// command consumed the chord. Chords carrying Ctrl, Alt or Meta have no
// default behavior so declined commands stay inert.
func (s *Session) defaultKey(c keys.Chord, r rune) bool {
	if c.Mods.Has(keys.ModCtrl) || c.Mods.Has(keys.ModAlt) || c.Mods.Has(keys.ModMeta) {
		return false
	}
	extend := c.Mods.Has(keys.ModShift)

	switch c.Key {
	case keys.KeyUp:
		s.Move(UnitLine, -1, extend)
		return true
	case keys.KeyDown:
		s.Move(UnitLine, 1, extend)
		return true
	case keys.KeyLeft:
		s.Move(UnitChar, -1, extend)
		return true
	case keys.KeyRight:
		s.Move(UnitChar, 1, extend)
		return true
	case keys.KeyBackspace:
		s.DeleteBackward()
		return true
	case keys.KeyEnter:
		s.InsertText("\n")
		return true
	case keys.KeyTab:
		s.InsertText("\t")
		return true
	case keys.KeyHome:
		sel := s.Selection()
		s.SetCaret(textpos.Point{Row: sel.Head.Row})
		return true
	case keys.KeyEnd:
		sel := s.Selection()
		s.SetCaret(textpos.Point{Row: sel.Head.Row, Column: s.LineLength(sel.Head.Row)})
		return true
	case keys.KeyRune:
		if r == 0 {
			return false
		}
		s.InsertText(string(r))
		return true
	default:
		return false
	}
}
