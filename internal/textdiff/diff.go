// Package textdiff computes contiguous text replacements by trimming the
// common prefix and suffix of two strings.
//
// The result is intentionally not a minimal edit-distance diff: two disjoint
// edits collapse into a single replacement bounded by the outermost differing
// bytes. Both editing surfaces apply the same replacement, so exactness of the
// round trip is the contract, not optimality.
package textdiff

// Change describes replacing the half-open byte range [From, To) of an old
// string with Text. Applying a Change returned by Compute to the old string
// reproduces the new string exactly.
type Change struct {
	// From is the inclusive start of the replaced range in the old string.
	From int

	// To is the exclusive end of the replaced range in the old string.
	To int

	// Text is the replacement text. Empty means pure deletion.
	Text string
}

// Len returns the length of the replaced range in the old string.
func (c *Change) Len() int {
	return c.To - c.From
}

// IsInsert returns true if the change inserts text without removing any.
func (c *Change) IsInsert() bool {
	return c.From == c.To && c.Text != ""
}

// IsDelete returns true if the change removes text without inserting any.
func (c *Change) IsDelete() bool {
	return c.From < c.To && c.Text == ""
}

// Delta returns the length difference the change introduces.
func (c *Change) Delta() int {
	return len(c.Text) - c.Len()
}

// Compute returns the contiguous replacement that turns oldVal into newVal,
// or nil when the strings are already equal.
//
// The scan walks forward while bytes match, then backward from both ends,
// never crossing the forward scan position. Offsets are byte offsets.
func Compute(oldVal, newVal string) *Change {
	if oldVal == newVal {
		return nil
	}

	start := 0
	oldEnd := len(oldVal)
	newEnd := len(newVal)

	for start < oldEnd && start < newEnd && oldVal[start] == newVal[start] {
		start++
	}
	for oldEnd > start && newEnd > start && oldVal[oldEnd-1] == newVal[newEnd-1] {
		oldEnd--
		newEnd--
	}

	return &Change{
		From: start,
		To:   oldEnd,
		Text: newVal[start:newEnd],
	}
}

// Apply replaces [c.From, c.To) of oldVal with c.Text. A nil change returns
// oldVal unchanged. Out-of-range offsets are clamped to the string bounds.
func Apply(oldVal string, c *Change) string {
	if c == nil {
		return oldVal
	}

	from := clamp(c.From, 0, len(oldVal))
	to := clamp(c.To, from, len(oldVal))

	return oldVal[:from] + c.Text + oldVal[to:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
