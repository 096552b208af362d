package keys

import "fmt"

// Spec is a single declarative chord-to-action mapping. Tables of specs are
// resolved once per platform into a chord lookup map.
type Spec struct {
	// Action is the command name the chord triggers.
	Action string

	// Chord is the portable chord notation, like "Mod-z" or "Shift-Up".
	Chord string

	// Mac optionally overrides Chord on darwin.
	Mac string

	// Extra optionally names a second chord bound to the same action,
	// like "Mod-y" alongside "Shift-Mod-z" for redo.
	Extra string
}

// ResolveTable parses a spec table for the given GOOS into a chord-to-action
// map. Later specs win chord collisions, so callers can append overrides to
// a default table.
func ResolveTable(specs []Spec, goos string) (map[Chord]string, error) {
	table := make(map[Chord]string, len(specs))
	for _, s := range specs {
		notation := s.Chord
		if goos == "darwin" && s.Mac != "" {
			notation = s.Mac
		}
		c, err := ParseFor(notation, goos)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", s.Action, err)
		}
		table[c] = s.Action

		if s.Extra != "" {
			c, err := ParseFor(s.Extra, goos)
			if err != nil {
				return nil, fmt.Errorf("action %q: %w", s.Action, err)
			}
			table[c] = s.Action
		}
	}
	return table, nil
}
