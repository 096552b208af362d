package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"inlay/internal/keys"
)

func TestChordFromEvent(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		want     keys.Chord
		wantRune rune
	}{
		{
			name:     "lowercase rune",
			ev:       tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone),
			want:     keys.Chord{Key: keys.KeyRune, Rune: 'a'},
			wantRune: 'a',
		},
		{
			name:     "uppercase rune normalizes to shift",
			ev:       tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone),
			want:     keys.Chord{Key: keys.KeyRune, Rune: 'a', Mods: keys.ModShift},
			wantRune: 'A',
		},
		{
			name:     "alt rune",
			ev:       tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt),
			want:     keys.Chord{Key: keys.KeyRune, Rune: 'x', Mods: keys.ModAlt},
			wantRune: 'x',
		},
		{
			name: "control letter",
			ev:   tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
			want: keys.Chord{Key: keys.KeyRune, Rune: 'q', Mods: keys.ModCtrl},
		},
		{
			// Some terminals report control keys without the modifier
			// flag; the chord carries Ctrl either way.
			name: "control letter without mod flag",
			ev:   tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyRune, Rune: 'd', Mods: keys.ModCtrl},
		},
		{
			// KeyEnter aliases KeyCtrlM; the named key wins.
			name: "enter",
			ev:   tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyEnter},
		},
		{
			// KeyTab aliases KeyCtrlI.
			name: "tab",
			ev:   tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyTab},
		},
		{
			name: "backtab becomes shift tab",
			ev:   tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyTab, Mods: keys.ModShift},
		},
		{
			// KeyBackspace aliases KeyCtrlH.
			name: "backspace",
			ev:   tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyBackspace},
		},
		{
			name: "backspace2",
			ev:   tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyBackspace},
		},
		{
			name: "escape",
			ev:   tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyEscape},
		},
		{
			name: "alt up",
			ev:   tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt),
			want: keys.Chord{Key: keys.KeyUp, Mods: keys.ModAlt},
		},
		{
			name: "delete",
			ev:   tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyDelete},
		},
		{
			name: "page down",
			ev:   tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyPageDown},
		},
		{
			name: "function key",
			ev:   tcell.NewEventKey(tcell.KeyF4, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyF4},
		},
		{
			name: "last function key",
			ev:   tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone),
			want: keys.Chord{Key: keys.KeyF12},
		},
		{
			name: "control space is inert",
			ev:   tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModNone),
			want: keys.Chord{},
		},
		{
			name: "function key beyond the table is inert",
			ev:   tcell.NewEventKey(tcell.KeyF13, 0, tcell.ModNone),
			want: keys.Chord{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, r := chordFromEvent(tt.ev)
			if got != tt.want {
				t.Errorf("chordFromEvent() chord = %v, want %v", got, tt.want)
			}
			if r != tt.wantRune {
				t.Errorf("chordFromEvent() rune = %q, want %q", r, tt.wantRune)
			}
		})
	}
}
