package doc

import (
	"errors"
	"testing"
)

func TestTransaction_ReplaceWithinBlock(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()

	if err := tr.ReplaceRange(2, 3, "E"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}

	// Nothing visible before commit.
	if got := d.Block(0).TextContent(); got != "Hello" {
		t.Fatalf("document changed before Apply: %q", got)
	}
	if d.Version() != 0 {
		t.Fatalf("version changed before Apply: %d", d.Version())
	}

	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if got := d.Block(0).TextContent(); got != "HEllo" {
		t.Errorf("text = %q, want %q", got, "HEllo")
	}
	if d.Version() != 1 {
		t.Errorf("version = %d, want 1", d.Version())
	}
}

func TestTransaction_InsertText(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()

	// Insert at the paragraph's content end.
	if err := tr.ReplaceRange(6, 6, " there"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if got := d.Block(0).TextContent(); got != "Hello there" {
		t.Errorf("text = %q, want %q", got, "Hello there")
	}
	if got := d.BlockStart(1); got != 13 {
		t.Errorf("next block start = %d, want 13", got)
	}
}

func TestTransaction_ReplaceCodeContent(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()

	if err := tr.ReplaceRange(8, 14, "y <- 2"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if got := d.Block(1).TextContent(); got != "y <- 2\nplot(x)" {
		t.Errorf("text = %q, want %q", got, "y <- 2\nplot(x)")
	}
	if got := d.Block(1).Attr("language"); got != "r" {
		t.Errorf("edit dropped attribute: language = %q", got)
	}
}

func TestTransaction_DeleteBlocks(t *testing.T) {
	t.Run("single block", func(t *testing.T) {
		d := sampleDoc()
		tr := d.Tr()
		if err := tr.ReplaceRange(23, 24, ""); err != nil {
			t.Fatalf("ReplaceRange error = %v", err)
		}
		if err := d.Apply(tr); err != nil {
			t.Fatalf("Apply error = %v", err)
		}
		if d.BlockCount() != 3 || d.Size() != 30 {
			t.Errorf("blocks=%d size=%d, want 3 blocks of size 30", d.BlockCount(), d.Size())
		}
	})

	t.Run("block range", func(t *testing.T) {
		d := sampleDoc()
		tr := d.Tr()
		if err := tr.ReplaceRange(7, 24, ""); err != nil {
			t.Fatalf("ReplaceRange error = %v", err)
		}
		if err := d.Apply(tr); err != nil {
			t.Fatalf("Apply error = %v", err)
		}
		if d.BlockCount() != 2 {
			t.Fatalf("blocks = %d, want 2", d.BlockCount())
		}
		if d.Block(1).TextContent() != "World" {
			t.Errorf("remaining blocks wrong: %v", d.Blocks())
		}
	})
}

func TestTransaction_ReplaceRange_Rejected(t *testing.T) {
	d := sampleDoc()
	tests := []struct {
		name     string
		from, to int
		text     string
		err      error
	}{
		{"crosses blocks", 5, 9, "x", ErrRangeInvalid},
		{"insert at boundary", 7, 7, "x", ErrRangeInvalid},
		{"delete not block aligned", 7, 20, "", ErrRangeInvalid},
		{"negative from", -1, 3, "", ErrPosOutOfRange},
		{"to past end", 0, 99, "", ErrPosOutOfRange},
		{"inverted", 9, 8, "", ErrRangeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := d.Tr()
			if err := tr.ReplaceRange(tt.from, tt.to, tt.text); !errors.Is(err, tt.err) {
				t.Errorf("ReplaceRange(%d, %d, %q) error = %v, want %v", tt.from, tt.to, tt.text, err, tt.err)
			}
		})
	}
}

func TestTransaction_InsertBlock(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()

	n := NewNode(testCode, "library(ggplot2)", map[string]string{"language": "r"})
	if err := tr.InsertBlock(7, n); err != nil {
		t.Fatalf("InsertBlock error = %v", err)
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if d.Block(1) != n {
		t.Errorf("Block(1) = %v, want inserted node", d.Block(1))
	}
	if pos, ok := d.NodePos(n); !ok || pos != 7 {
		t.Errorf("NodePos(inserted) = (%d, %v), want (7, true)", pos, ok)
	}

	t.Run("append at end", func(t *testing.T) {
		d := sampleDoc()
		tr := d.Tr()
		tail := NewNode(testPara, "fin", nil)
		if err := tr.InsertBlock(d.Size(), tail); err != nil {
			t.Fatalf("InsertBlock(end) error = %v", err)
		}
		if err := d.Apply(tr); err != nil {
			t.Fatalf("Apply error = %v", err)
		}
		if d.Block(d.BlockCount()-1) != tail {
			t.Error("appended block not last")
		}
	})

	t.Run("mid-block position rejected", func(t *testing.T) {
		tr := sampleDoc().Tr()
		if err := tr.InsertBlock(8, NewNode(testPara, "", nil)); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("InsertBlock(8) error = %v, want ErrRangeInvalid", err)
		}
	})
}

func TestTransaction_ReplaceBlockAt(t *testing.T) {
	d := sampleDoc()
	old := d.Block(1)
	next := old.WithAttr("language", "python")

	tr := d.Tr()
	if err := tr.ReplaceBlockAt(7, next); err != nil {
		t.Fatalf("ReplaceBlockAt error = %v", err)
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}

	if _, ok := d.NodePos(old); ok {
		t.Error("replaced node still present")
	}
	if pos, ok := d.NodePos(next); !ok || pos != 7 {
		t.Errorf("NodePos(replacement) = (%d, %v), want (7, true)", pos, ok)
	}
}

func TestApply_Stale(t *testing.T) {
	d := sampleDoc()
	first := d.Tr()
	second := d.Tr()

	if err := first.ReplaceRange(2, 3, "E"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	if err := d.Apply(first); err != nil {
		t.Fatalf("Apply(first) error = %v", err)
	}

	if err := second.ReplaceRange(2, 3, "X"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	if err := d.Apply(second); !errors.Is(err, ErrStaleDoc) {
		t.Errorf("Apply(second) error = %v, want ErrStaleDoc", err)
	}
	if got := d.Block(0).TextContent(); got != "HEllo" {
		t.Errorf("stale transaction changed the document: %q", got)
	}
}

func TestApply_SelectionOnly(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()
	tr.SetSelection(NewTextSelection(1, 6))

	if tr.DocChanged() {
		t.Error("selection-only transaction reports DocChanged")
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if d.Version() != 0 {
		t.Errorf("version = %d, want 0 for a selection-only transaction", d.Version())
	}
	if !d.Selection().Eq(NewTextSelection(1, 6)) {
		t.Errorf("selection = %v, want text(1..6)", d.Selection())
	}
}

func TestApply_ClampsSelection(t *testing.T) {
	t.Run("text selection past end", func(t *testing.T) {
		d := sampleDoc()
		tr := d.Tr()
		tr.SetSelection(NewTextSelection(1, 99))
		if err := d.Apply(tr); err != nil {
			t.Fatalf("Apply error = %v", err)
		}
		if got := d.Selection().To(); got != d.Size() {
			t.Errorf("selection end = %d, want clamped to %d", got, d.Size())
		}
	})

	t.Run("node selection on deleted block", func(t *testing.T) {
		d := sampleDoc()
		sel, err := NewNodeSelection(d, 23)
		if err != nil {
			t.Fatalf("NewNodeSelection error = %v", err)
		}
		tr := d.Tr()
		if err := tr.ReplaceRange(23, 24, ""); err != nil {
			t.Fatalf("ReplaceRange error = %v", err)
		}
		tr.SetSelection(sel)
		if err := d.Apply(tr); err != nil {
			t.Fatalf("Apply error = %v", err)
		}
		// The divider is gone; the stale node selection degrades to a
		// caret at the end of the preceding code chunk.
		if !d.Selection().Eq(CaretAt(22)) {
			t.Errorf("selection = %v, want caret(22)", d.Selection())
		}
	})
}

func TestApply_KeepsSelectionWhenUnset(t *testing.T) {
	d := sampleDoc()
	before := d.Selection()

	tr := d.Tr()
	if err := tr.ReplaceRange(2, 3, "E"); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if !d.Selection().Eq(before) {
		t.Errorf("selection = %v, want unchanged %v", d.Selection(), before)
	}
}

func TestTransaction_SelectNear(t *testing.T) {
	d := sampleDoc()
	tr := d.Tr()

	// Delete the code chunk, then ask for a caret near its former start.
	if err := tr.ReplaceRange(7, 23, ""); err != nil {
		t.Fatalf("ReplaceRange error = %v", err)
	}
	tr.SelectNear(7, -1)
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if !d.Selection().Eq(CaretAt(6)) {
		t.Errorf("selection = %v, want caret(6)", d.Selection())
	}
}

func TestTransaction_SelectNear_FallsForward(t *testing.T) {
	// Only block is a divider followed by a paragraph; a backward request
	// from the front has nowhere to go and falls forward instead.
	d := New(
		NewNode(testRule, "", nil),
		NewNode(testPara, "tail", nil),
	)
	tr := d.Tr()
	tr.SelectNear(0, -1)
	if err := d.Apply(tr); err != nil {
		t.Fatalf("Apply error = %v", err)
	}
	if !d.Selection().Eq(CaretAt(2)) {
		t.Errorf("selection = %v, want caret(2)", d.Selection())
	}
}

func TestTransaction_ScrollRequested(t *testing.T) {
	tr := sampleDoc().Tr()
	if tr.ScrollRequested() {
		t.Error("new transaction requests scroll")
	}
	tr.ScrollIntoView()
	if !tr.ScrollRequested() {
		t.Error("ScrollIntoView not recorded")
	}
}
