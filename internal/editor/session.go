// Package editor implements the embedded code editor session: a small
// line-oriented text surface with a directional selection, focus state, a
// language mode tag, registered key commands, and change/selection/focus
// listeners. The session knows nothing about the host document; a binding
// wires the two together.
package editor

import (
	"strings"
	"sync"

	"inlay/internal/keys"
	"inlay/internal/textpos"
)

// Command is a registered key handler. It returns true when it consumed the
// key; false lets the session's default handling run.
type Command func() bool

// Session is one embedded editor instance. All methods are safe for
// concurrent use; listeners run without the session lock held and may call
// back into the session.
type Session struct {
	mu       sync.Mutex
	lines    []string
	sel      textpos.Range
	focused  bool
	mode     string
	commands map[keys.Chord]Command
	events   *registry
}

// Option configures a session.
type Option func(*Session)

// WithValue sets the initial content.
func WithValue(value string) Option {
	return func(s *Session) {
		s.lines = strings.Split(value, "\n")
	}
}

// WithMode sets the initial language mode tag.
func WithMode(mode string) Option {
	return func(s *Session) {
		s.mode = mode
	}
}

// NewSession creates an empty session with the caret at the origin.
func NewSession(opts ...Option) *Session {
	s := &Session{
		lines:    []string{""},
		commands: make(map[keys.Chord]Command),
		events:   newRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Value returns the full content with lines joined by "\n".
func (s *Session) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinLocked()
}

// SetValue replaces the entire content, keeping the selection where it was
// when still valid and clamping it otherwise. No events fire when the new
// content equals the old.
func (s *Session) SetValue(value string) {
	s.mu.Lock()
	if s.joinLocked() == value {
		s.mu.Unlock()
		return
	}
	s.lines = strings.Split(value, "\n")
	selChanged := s.setSelectionLocked(s.sel.Anchor, s.sel.Head)
	s.mu.Unlock()

	s.events.emit(eventChange)
	if selChanged {
		s.events.emit(eventSelection)
	}
}

// RowCount returns the number of lines.
func (s *Session) RowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Line returns the text of one line, or "" when row is out of range.
func (s *Session) Line(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.lines) {
		return ""
	}
	return s.lines[row]
}

// LineLength returns the byte length of one line, or 0 when row is out of
// range.
func (s *Session) LineLength(row int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.lines) {
		return 0
	}
	return len(s.lines[row])
}

// Selection returns the current selection.
func (s *Session) Selection() textpos.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetSelection sets the selection, clamping both ends to the content. No
// event fires when the selection does not change.
func (s *Session) SetSelection(anchor, head textpos.Point) {
	s.mu.Lock()
	changed := s.setSelectionLocked(anchor, head)
	s.mu.Unlock()
	if changed {
		s.events.emit(eventSelection)
	}
}

// SetCaret collapses the selection to a caret at p.
func (s *Session) SetCaret(p textpos.Point) {
	s.SetSelection(p, p)
}

// ReplaceRange replaces the span between two points with text, clamping
// both points to the content. The caret lands at the end of the inserted
// text. A replacement that leaves the content unchanged fires no events.
func (s *Session) ReplaceRange(from, to textpos.Point, text string) {
	s.mu.Lock()
	value := s.joinLocked()
	lo := textpos.OffsetOf(value, from)
	hi := textpos.OffsetOf(value, to)
	if lo > hi {
		lo, hi = hi, lo
	}
	next := value[:lo] + text + value[hi:]
	if next == value {
		s.mu.Unlock()
		return
	}
	s.lines = strings.Split(next, "\n")
	caret := textpos.PointOf(next, lo+len(text))
	selChanged := s.setSelectionLocked(caret, caret)
	s.mu.Unlock()

	s.events.emit(eventChange)
	if selChanged {
		s.events.emit(eventSelection)
	}
}

// InsertText replaces the current selection with text.
func (s *Session) InsertText(text string) {
	sel := s.Selection()
	s.ReplaceRange(sel.Start(), sel.End(), text)
}

// Focus gives the session keyboard focus. Focus listeners fire only on the
// transition.
func (s *Session) Focus() {
	s.mu.Lock()
	if s.focused {
		s.mu.Unlock()
		return
	}
	s.focused = true
	s.mu.Unlock()
	s.events.emit(eventFocus)
}

// Blur removes keyboard focus. Blur listeners fire only on the transition.
func (s *Session) Blur() {
	s.mu.Lock()
	if !s.focused {
		s.mu.Unlock()
		return
	}
	s.focused = false
	s.mu.Unlock()
	s.events.emit(eventBlur)
}

// HasFocus returns true while the session holds keyboard focus.
func (s *Session) HasFocus() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Mode returns the current language mode tag.
func (s *Session) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode sets the language mode tag.
func (s *Session) SetMode(mode string) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// OnChange registers a listener called after each content mutation.
func (s *Session) OnChange(fn func()) Subscription {
	return s.events.subscribe(eventChange, fn)
}

// OnSelectionChange registers a listener called after the selection moves.
func (s *Session) OnSelectionChange(fn func()) Subscription {
	return s.events.subscribe(eventSelection, fn)
}

// OnFocus registers a listener called when the session gains focus.
func (s *Session) OnFocus(fn func()) Subscription {
	return s.events.subscribe(eventFocus, fn)
}

// OnBlur registers a listener called when the session loses focus.
func (s *Session) OnBlur(fn func()) Subscription {
	return s.events.subscribe(eventBlur, fn)
}

// joinLocked renders the line slice as one string. Callers hold mu.
func (s *Session) joinLocked() string {
	return strings.Join(s.lines, "\n")
}

// setSelectionLocked clamps and installs a selection, reporting whether it
// changed. Callers hold mu.
func (s *Session) setSelectionLocked(anchor, head textpos.Point) bool {
	next := textpos.NewRange(s.clampPointLocked(anchor), s.clampPointLocked(head))
	if next == s.sel {
		return false
	}
	s.sel = next
	return true
}

// clampPointLocked bounds a point to the content, snapping the column back
// to a rune boundary. Callers hold mu.
func (s *Session) clampPointLocked(p textpos.Point) textpos.Point {
	if p.Row < 0 {
		return textpos.Point{}
	}
	if p.Row >= len(s.lines) {
		last := len(s.lines) - 1
		return textpos.Point{Row: last, Column: len(s.lines[last])}
	}
	line := s.lines[p.Row]
	col := p.Column
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	col = snapToRuneStart(line, col)
	return textpos.Point{Row: p.Row, Column: col}
}
