package app

import (
	"github.com/gdamore/tcell/v2"

	"inlay/internal/keys"
)

// chordFromEvent translates a terminal key event into a chord plus the
// typed rune, if any. Control-letter and function keys are matched by
// range because tcell aliases several of them to named keys.
func chordFromEvent(ev *tcell.EventKey) (keys.Chord, rune) {
	mods := modsFromEvent(ev)
	switch ev.Key() {
	case tcell.KeyRune:
		return keys.RuneChord(ev.Rune(), mods), ev.Rune()
	case tcell.KeyUp:
		return keys.Chord{Key: keys.KeyUp, Mods: mods}, 0
	case tcell.KeyDown:
		return keys.Chord{Key: keys.KeyDown, Mods: mods}, 0
	case tcell.KeyLeft:
		return keys.Chord{Key: keys.KeyLeft, Mods: mods}, 0
	case tcell.KeyRight:
		return keys.Chord{Key: keys.KeyRight, Mods: mods}, 0
	case tcell.KeyHome:
		return keys.Chord{Key: keys.KeyHome, Mods: mods}, 0
	case tcell.KeyEnd:
		return keys.Chord{Key: keys.KeyEnd, Mods: mods}, 0
	case tcell.KeyPgUp:
		return keys.Chord{Key: keys.KeyPageUp, Mods: mods}, 0
	case tcell.KeyPgDn:
		return keys.Chord{Key: keys.KeyPageDown, Mods: mods}, 0
	case tcell.KeyDelete:
		return keys.Chord{Key: keys.KeyDelete, Mods: mods}, 0
	case tcell.KeyEscape:
		return keys.Chord{Key: keys.KeyEscape, Mods: mods}, 0
	case tcell.KeyEnter:
		return keys.Chord{Key: keys.KeyEnter, Mods: mods}, 0
	case tcell.KeyTab:
		return keys.Chord{Key: keys.KeyTab, Mods: mods}, 0
	case tcell.KeyBacktab:
		return keys.Chord{Key: keys.KeyTab, Mods: mods.With(keys.ModShift)}, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keys.Chord{Key: keys.KeyBackspace, Mods: mods}, 0
	default:
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			r := rune('a' + ev.Key() - tcell.KeyCtrlA)
			return keys.RuneChord(r, mods.With(keys.ModCtrl)), 0
		}
		if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF12 {
			return keys.Chord{Key: keys.KeyF1 + keys.Key(ev.Key()-tcell.KeyF1), Mods: mods}, 0
		}
		return keys.Chord{}, 0
	}
}

func modsFromEvent(ev *tcell.EventKey) keys.Modifier {
	var m keys.Modifier
	if ev.Modifiers()&tcell.ModShift != 0 {
		m = m.With(keys.ModShift)
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		m = m.With(keys.ModCtrl)
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		m = m.With(keys.ModAlt)
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		m = m.With(keys.ModMeta)
	}
	return m
}
