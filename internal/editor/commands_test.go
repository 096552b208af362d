package editor

import (
	"testing"

	"inlay/internal/keys"
	"inlay/internal/textpos"
)

func TestSession_HandleKey_CommandPrecedence(t *testing.T) {
	s := NewSession(WithValue("ab\ncd"))
	s.SetCaret(textpos.Point{Row: 1, Column: 0})

	consumed := true
	calls := 0
	s.RegisterCommand(keys.Chord{Key: keys.KeyUp}, func() bool {
		calls++
		return consumed
	})

	// A consuming command suppresses the default movement.
	if !s.HandleKey(keys.Chord{Key: keys.KeyUp}, 0) {
		t.Fatal("HandleKey returned false")
	}
	if calls != 1 {
		t.Fatalf("command calls = %d, want 1", calls)
	}
	if got := s.Selection().Head.Row; got != 1 {
		t.Errorf("row = %d, want 1 (movement suppressed)", got)
	}

	// A declining command falls through to the default movement.
	consumed = false
	if !s.HandleKey(keys.Chord{Key: keys.KeyUp}, 0) {
		t.Fatal("HandleKey returned false")
	}
	if got := s.Selection().Head.Row; got != 0 {
		t.Errorf("row = %d, want 0 (default movement ran)", got)
	}
}

func TestSession_HandleKey_Defaults(t *testing.T) {
	s := NewSession()

	s.HandleKey(keys.RuneChord('h', keys.ModNone), 'h')
	s.HandleKey(keys.RuneChord('i', keys.ModNone), 'i')
	s.HandleKey(keys.Chord{Key: keys.KeyEnter}, 0)
	s.HandleKey(keys.RuneChord('x', keys.ModNone), 'x')
	if got := s.Value(); got != "hi\nx" {
		t.Errorf("Value() = %q, want %q", got, "hi\nx")
	}

	s.HandleKey(keys.Chord{Key: keys.KeyBackspace}, 0)
	if got := s.Value(); got != "hi\n" {
		t.Errorf("Value() after backspace = %q, want %q", got, "hi\n")
	}

	s.HandleKey(keys.Chord{Key: keys.KeyUp}, 0)
	if got := s.Selection().Head.Row; got != 0 {
		t.Errorf("row = %d, want 0", got)
	}

	s.HandleKey(keys.Chord{Key: keys.KeyEnd}, 0)
	if got := s.Selection().Head; got != (textpos.Point{Row: 0, Column: 2}) {
		t.Errorf("head after End = %v, want {0 2}", got)
	}
	s.HandleKey(keys.Chord{Key: keys.KeyHome}, 0)
	if got := s.Selection().Head; got != (textpos.Point{Row: 0, Column: 0}) {
		t.Errorf("head after Home = %v, want {0 0}", got)
	}
}

func TestSession_HandleKey_ShiftArrowExtends(t *testing.T) {
	s := NewSession(WithValue("abc"))

	s.HandleKey(keys.Chord{Key: keys.KeyRight, Mods: keys.ModShift}, 0)
	s.HandleKey(keys.Chord{Key: keys.KeyRight, Mods: keys.ModShift}, 0)
	sel := s.Selection()
	if sel.IsEmpty() || sel.Anchor != (textpos.Point{}) || sel.Head != (textpos.Point{Row: 0, Column: 2}) {
		t.Errorf("selection = %v, want anchored extension", sel)
	}
}

func TestSession_HandleKey_ShiftArrowMissesPlainCommand(t *testing.T) {
	s := NewSession(WithValue("ab\ncd"))
	s.SetCaret(textpos.Point{Row: 1, Column: 0})

	calls := 0
	s.RegisterCommand(keys.Chord{Key: keys.KeyUp}, func() bool {
		calls++
		return true
	})

	s.HandleKey(keys.Chord{Key: keys.KeyUp, Mods: keys.ModShift}, 0)
	if calls != 0 {
		t.Errorf("plain-arrow command ran for Shift-Up: calls = %d", calls)
	}
	sel := s.Selection()
	if sel.Head.Row != 0 || sel.Anchor.Row != 1 {
		t.Errorf("selection = %v, want extension up", sel)
	}
}

func TestSession_HandleKey_ModifiedRunesNotInserted(t *testing.T) {
	s := NewSession()
	if s.HandleKey(keys.Chord{Key: keys.KeyRune, Rune: 'z', Mods: keys.ModCtrl}, 'z') {
		t.Error("unbound Ctrl-z reported as consumed")
	}
	if got := s.Value(); got != "" {
		t.Errorf("Value() = %q, want empty", got)
	}
}

func TestSession_RegisterCommands(t *testing.T) {
	s := NewSession()
	hits := map[string]int{}
	quitChord := keys.Chord{Key: keys.KeyRune, Rune: 'q', Mods: keys.ModCtrl}
	s.RegisterCommands(map[keys.Chord]Command{
		{Key: keys.KeyF4}: func() bool { hits["f4"]++; return true },
		quitChord:         func() bool { hits["quit"]++; return true },
	})

	s.HandleKey(keys.Chord{Key: keys.KeyF4}, 0)
	s.HandleKey(quitChord, 'q')
	if hits["f4"] != 1 || hits["quit"] != 1 {
		t.Errorf("hits = %v, want one each", hits)
	}
}
