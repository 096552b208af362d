package keys

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptyChord   = errors.New("empty chord specification")
	ErrInvalidChord = errors.New("invalid chord specification")
)

// Chord is one complete key press: a key (or character) plus modifiers.
// Character chords are normalized to the lower-case rune with ModShift set
// for upper-case input, so a Chord is usable directly as a map key.
type Chord struct {
	// Key is the named key, or KeyRune for character keys.
	Key Key

	// Rune is the character for KeyRune chords, lower-cased.
	Rune rune

	// Mods is the modifier mask.
	Mods Modifier
}

// String returns chord notation like "Ctrl-Shift-z" or "Cmd-Enter".
func (c Chord) String() string {
	var name string
	if c.Key == KeyRune {
		name = string(c.Rune)
	} else {
		name = c.Key.String()
	}
	if c.Mods == ModNone {
		return name
	}
	return c.Mods.String() + "-" + name
}

// Parse parses chord notation for the current platform. See ParseFor.
func Parse(spec string) (Chord, error) {
	return ParseFor(spec, runtime.GOOS)
}

// ParseFor parses chord notation like "Mod-z", "Shift-Up" or "F4" for the
// given GOOS. Segments are hyphen-separated; all but the last name
// modifiers. The portable modifier "Mod" resolves to Cmd on darwin and
// Ctrl elsewhere. An upper-case character key implies Shift and is stored
// lower-cased.
func ParseFor(spec, goos string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptyChord
	}

	parts := strings.Split(spec, "-")
	// A spec ending in "--" binds the "-" key itself, as in "Ctrl--". A
	// single trailing hyphen is a missing key and falls through to the
	// error below.
	if n := len(parts); n > 1 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "-")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		if strings.EqualFold(p, "mod") {
			if goos == "darwin" {
				mods = mods.With(ModMeta)
			} else {
				mods = mods.With(ModCtrl)
			}
			continue
		}
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, p)
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidChord, spec)
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return Chord{Key: k, Mods: mods}, nil
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		if unicode.IsUpper(r) {
			mods = mods.With(ModShift)
			r = unicode.ToLower(r)
		}
		return Chord{Key: KeyRune, Rune: r, Mods: mods}, nil
	}

	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidChord, keyPart)
}

// RuneChord builds a normalized character chord from raw input: upper-case
// characters gain ModShift and are stored lower-cased.
func RuneChord(r rune, mods Modifier) Chord {
	if unicode.IsUpper(r) {
		mods = mods.With(ModShift)
		r = unicode.ToLower(r)
	}
	return Chord{Key: KeyRune, Rune: r, Mods: mods}
}
