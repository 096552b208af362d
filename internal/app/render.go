package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"inlay/internal/doc"
	"inlay/internal/textpos"
)

type lineKind int

const (
	lineText lineKind = iota
	lineBorder
	lineCode
	lineRule
)

// screenLine is one renderable row of the document layout. Code blocks
// expand into a top border, one row per session line and a bottom border.
type screenLine struct {
	kind  lineKind
	text  string
	view  *nodeView
	block int
	row   int
}

// buildLayout flattens the document into screen lines. A code block whose
// binding failed falls back to plain text rows.
func (app *App) buildLayout() []screenLine {
	var lines []screenLine
	for i, blk := range app.d.Blocks() {
		switch {
		case blk.Type().Code:
			v := app.viewAtBlock(i)
			if v == nil {
				for _, t := range strings.Split(blk.TextContent(), "\n") {
					lines = append(lines, screenLine{kind: lineText, text: t, block: i})
				}
				continue
			}
			lines = append(lines, screenLine{kind: lineBorder, view: v, block: i, row: 0})
			s := v.binding.Session()
			for r := 0; r < s.RowCount(); r++ {
				lines = append(lines, screenLine{kind: lineCode, text: s.Line(r), view: v, block: i, row: r})
			}
			lines = append(lines, screenLine{kind: lineBorder, view: v, block: i, row: 1})
		case blk.Type().Text:
			lines = append(lines, screenLine{kind: lineText, text: blk.TextContent(), block: i})
		default:
			lines = append(lines, screenLine{kind: lineRule, block: i})
		}
	}
	return lines
}

// draw renders the full frame: document rows, the status bar, and the
// terminal cursor at the caret.
func (app *App) draw() {
	if app.screen == nil {
		return
	}
	app.screen.Clear()
	w, h := app.screen.Size()
	if w <= 0 || h <= 1 {
		return
	}

	lines := app.buildLayout()
	cursor, cursorX := app.cursorPos(lines)
	app.ensureVisible(cursor, h-1, len(lines))

	for y := 0; y < h-1; y++ {
		li := app.scroll + y
		if li >= len(lines) {
			break
		}
		app.drawLine(y, w, lines[li])
	}
	app.drawStatus(w, h-1)

	if cursor >= app.scroll && cursor < app.scroll+h-1 {
		app.screen.ShowCursor(cursorX, cursor-app.scroll)
	} else {
		app.screen.HideCursor()
	}
	app.screen.Show()
}

func (app *App) drawLine(y, w int, ln screenLine) {
	switch ln.kind {
	case lineText:
		app.putString(0, y, ln.text, tcell.StyleDefault)
	case lineRule:
		app.putString(0, y, strings.Repeat("─", w), tcell.StyleDefault.Foreground(tcell.ColorGray))
	case lineBorder:
		app.putString(0, y, app.borderLine(ln, w), app.borderStyle(ln.view))
	case lineCode:
		st := app.borderStyle(ln.view)
		set := borderRunes(ln.view.binding.Border())
		app.putString(0, y, string(set.v), st)
		app.putString(2, y, ln.text, tcell.StyleDefault)
		app.putString(w-1, y, string(set.v), st)
	}
}

// cursorPos maps the caret onto a layout line and column. A focused
// session positions the cursor from its own selection; otherwise the host
// selection decides. Node selections hide the cursor.
func (app *App) cursorPos(lines []screenLine) (int, int) {
	if v := app.activeView(); v != nil {
		head := v.binding.Session().Selection().Head
		for li, ln := range lines {
			if ln.kind == lineCode && ln.view == v && ln.row == head.Row {
				return li, 2 + head.Column
			}
		}
		return -1, 0
	}

	s, ok := app.d.Selection().(doc.TextSelection)
	if !ok {
		return -1, 0
	}
	i, err := app.d.BlockAt(s.Head)
	if err != nil || i >= app.d.BlockCount() {
		return -1, 0
	}
	off := s.Head - app.d.BlockStart(i) - 1
	if off < 0 {
		off = 0
	}

	if v := app.viewAtBlock(i); v != nil {
		p := textpos.PointOf(v.binding.Session().Value(), off)
		for li, ln := range lines {
			if ln.kind == lineCode && ln.view == v && ln.row == p.Row {
				return li, 2 + p.Column
			}
		}
		return -1, 0
	}
	for li, ln := range lines {
		if ln.kind == lineText && ln.block == i {
			return li, off
		}
	}
	return -1, 0
}

// ensureVisible scrolls the viewport so the cursor row stays on screen.
func (app *App) ensureVisible(cursor, rows, total int) {
	if rows < 1 {
		return
	}
	max := total - rows
	if max < 0 {
		max = 0
	}
	if app.scroll > max {
		app.scroll = max
	}
	if app.scroll < 0 {
		app.scroll = 0
	}
	if cursor < 0 {
		return
	}
	if cursor < app.scroll {
		app.scroll = cursor
	}
	if cursor >= app.scroll+rows {
		app.scroll = cursor - rows + 1
	}
}

type borderSet struct {
	tl, tr, bl, br, h, v rune
}

func borderRunes(style string) borderSet {
	switch style {
	case "square":
		return borderSet{'┌', '┐', '└', '┘', '─', '│'}
	case "double":
		return borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	case "ascii":
		return borderSet{'+', '+', '+', '+', '-', '|'}
	default:
		return borderSet{'╭', '╮', '╰', '╯', '─', '│'}
	}
}

// borderLine renders a full-width top or bottom border. The top border
// carries the mode label and the run affordance for runnable blocks.
func (app *App) borderLine(ln screenLine, w int) string {
	set := borderRunes(ln.view.binding.Border())
	if w < 2 {
		return ""
	}
	line := make([]rune, w)
	for i := range line {
		line[i] = set.h
	}
	if ln.row == 0 {
		line[0], line[w-1] = set.tl, set.tr
		label := []rune(app.borderLabel(ln.view))
		if space := w - 3; len(label) > space {
			if space < 0 {
				space = 0
			}
			label = label[:space]
		}
		copy(line[2:], label)
	} else {
		line[0], line[w-1] = set.bl, set.br
	}
	return string(line)
}

func (app *App) borderLabel(v *nodeView) string {
	mode := v.binding.Mode()
	if mode == "" {
		return ""
	}
	if v.binding.Runnable() {
		return fmt.Sprintf(" %s ▸ ", mode)
	}
	return fmt.Sprintf(" %s ", mode)
}

// borderStyle picks the frame style: focused sessions get a bright frame,
// a node-selected block renders reversed, and editor classes from the
// configuration adjust attributes.
func (app *App) borderStyle(v *nodeView) tcell.Style {
	st := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if v.binding.Active() {
		st = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	}
	for _, class := range v.binding.Classes() {
		switch class {
		case "bold":
			st = st.Bold(true)
		case "dim":
			st = st.Dim(true)
		}
	}
	if ns, ok := app.d.Selection().(doc.NodeSelection); ok && ns.Pos == app.d.BlockStart(v.index) {
		st = st.Reverse(true)
	}
	return st
}

func (app *App) drawStatus(w, y int) {
	st := tcell.StyleDefault.Background(tcell.ColorDarkSlateBlue).Foreground(tcell.ColorWhite)
	for x := 0; x < w; x++ {
		app.screen.SetContent(x, y, ' ', nil, st)
	}

	owner := "document"
	if v := app.activeView(); v != nil {
		owner = fmt.Sprintf("chunk %d/%d", app.chunkOrdinal(v), len(app.views))
	}
	left := " " + owner
	if app.status != "" {
		left += "  " + app.status
	}
	app.putString(0, y, left, st)

	right := "Ctrl-Q quit  Ctrl-S save  Esc host "
	if x := w - len(right); x > len(left)+1 {
		app.putString(x, y, right, st)
	}
}

// chunkOrdinal returns the 1-based position of the view among all views.
func (app *App) chunkOrdinal(v *nodeView) int {
	for k, other := range app.views {
		if other == v {
			return k + 1
		}
	}
	return 0
}

func (app *App) putString(x, y int, s string, st tcell.Style) {
	w, _ := app.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		app.screen.SetContent(x, y, r, nil, st)
		x++
	}
}
