package editor

import (
	"strings"
	"unicode/utf8"

	"inlay/internal/textpos"
)

// Unit is the granularity of a cursor movement.
type Unit int

const (
	// UnitChar moves by one character.
	UnitChar Unit = iota

	// UnitLine moves by one line.
	UnitLine
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case UnitChar:
		return "char"
	case UnitLine:
		return "line"
	default:
		return "unknown"
	}
}

// Move moves the selection head by one unit in dir (negative is toward the
// start). With extend the anchor stays put; otherwise the selection
// collapses to the new head. Returns false when the cursor is already at
// the content edge in that direction.
func (s *Session) Move(unit Unit, dir int, extend bool) bool {
	s.mu.Lock()

	head := s.sel.Head
	var next textpos.Point
	switch unit {
	case UnitLine:
		row := head.Row + sign(dir)
		if row < 0 || row >= len(s.lines) {
			s.mu.Unlock()
			return false
		}
		next = s.clampPointLocked(textpos.Point{Row: row, Column: head.Column})
	default:
		value := s.joinLocked()
		off := textpos.OffsetOf(value, head)
		if sign(dir) < 0 {
			if off == 0 {
				s.mu.Unlock()
				return false
			}
			_, w := utf8.DecodeLastRuneInString(value[:off])
			next = textpos.PointOf(value, off-w)
		} else {
			if off >= len(value) {
				s.mu.Unlock()
				return false
			}
			_, w := utf8.DecodeRuneInString(value[off:])
			next = textpos.PointOf(value, off+w)
		}
	}

	anchor := next
	if extend {
		anchor = s.sel.Anchor
	}
	changed := s.setSelectionLocked(anchor, next)
	s.mu.Unlock()

	if changed {
		s.events.emit(eventSelection)
	}
	return true
}

// DeleteBackward deletes the selection, or the character before the caret
// when the selection is empty. Returns false when the caret is at the very
// start with nothing selected.
func (s *Session) DeleteBackward() bool {
	s.mu.Lock()
	value := s.joinLocked()

	var lo, hi int
	if s.sel.IsEmpty() {
		off := textpos.OffsetOf(value, s.sel.Head)
		if off == 0 {
			s.mu.Unlock()
			return false
		}
		_, w := utf8.DecodeLastRuneInString(value[:off])
		lo, hi = off-w, off
	} else {
		lo = textpos.OffsetOf(value, s.sel.Start())
		hi = textpos.OffsetOf(value, s.sel.End())
	}

	next := value[:lo] + value[hi:]
	s.lines = strings.Split(next, "\n")
	caret := textpos.PointOf(next, lo)
	selChanged := s.setSelectionLocked(caret, caret)
	s.mu.Unlock()

	s.events.emit(eventChange)
	if selChanged {
		s.events.emit(eventSelection)
	}
	return true
}

// sign normalizes a direction to -1 or 1.
func sign(dir int) int {
	if dir < 0 {
		return -1
	}
	return 1
}

// snapToRuneStart walks col back to the nearest rune boundary in line.
func snapToRuneStart(line string, col int) int {
	for col > 0 && col < len(line) && !utf8.RuneStart(line[col]) {
		col--
	}
	return col
}
