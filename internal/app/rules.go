package app

import (
	"regexp"
	"strings"

	"inlay/internal/classify"
	"inlay/internal/doc"
)

// fencePattern matches a paragraph that has just become a fence opener:
// three backticks followed by a bare language word or brace-style info.
// Bare backticks alone stay text, so typing the language is possible.
var fencePattern = regexp.MustCompile("^```(\\{[^`]*\\}|[A-Za-z0-9_+-]+)$")

// ruleSnapshot remembers the paragraph a fence rule replaced so
// delete-backward in the fresh code block can restore it.
type ruleSnapshot struct {
	index int
	para  *doc.Node
}

// maybeApplyInputRule runs after host-side typing: a paragraph whose full
// text matches a fence opener, with the caret at its end, is converted
// into a code block. The caret lands inside the new block, which focuses
// its session.
func (app *App) maybeApplyInputRule() {
	sel, ok := app.d.Selection().(doc.TextSelection)
	if !ok || !sel.IsCaret() {
		return
	}
	i, err := app.d.BlockAt(sel.Head)
	if err != nil || i >= app.d.BlockCount() {
		return
	}
	blk := app.d.Block(i)
	if blk.Type() != Paragraph {
		return
	}
	m := fencePattern.FindStringSubmatch(blk.TextContent())
	if m == nil {
		return
	}
	start := app.d.BlockStart(i)
	if sel.Head != start+1+len(blk.TextContent()) {
		return
	}

	code := fenceRuleNode(m[1])
	if code == nil {
		return
	}
	tr := app.d.Tr()
	if err := tr.ReplaceBlockAt(start, code); err != nil {
		app.log.Warningf("fence rule at block %d: %s", i, err)
		return
	}
	tr.SetSelection(doc.CaretAt(start + 1 + len(code.TextContent())))
	tr.ScrollIntoView()
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("fence rule dispatch: %s", err)
		return
	}
	app.inputRule = &ruleSnapshot{index: i, para: blk}
	app.status = "code block created (backspace undoes)"
}

// fenceRuleNode builds the code block a fence opener converts into. Brace
// info becomes the block's header line with an empty body line below it;
// a bare word becomes the language attribute of an empty block.
func fenceRuleNode(info string) *doc.Node {
	if strings.HasPrefix(info, "{") {
		lang, _, _, ok := classify.ParseFenceHeader(info)
		if !ok {
			return nil
		}
		return doc.NewNode(CodeBlock, info+"\n", map[string]string{"language": lang})
	}
	var attrs map[string]string
	if info != "" {
		attrs = map[string]string{"language": strings.ToLower(info)}
	}
	return doc.NewNode(CodeBlock, "", attrs)
}

// UndoInputRule restores the paragraph the most recent fence rule
// replaced. Any other document change since arms it off.
func (app *App) UndoInputRule() bool {
	pending := app.inputRule
	if pending == nil {
		return false
	}
	app.inputRule = nil
	if pending.index >= app.d.BlockCount() {
		return false
	}
	if app.d.Block(pending.index).Type() != CodeBlock {
		return false
	}

	start := app.d.BlockStart(pending.index)
	tr := app.d.Tr()
	if err := tr.ReplaceBlockAt(start, pending.para); err != nil {
		app.log.Warningf("undoing fence rule: %s", err)
		return false
	}
	tr.SetSelection(doc.CaretAt(start + 1 + len(pending.para.TextContent())))
	if err := app.Dispatch(tr); err != nil {
		app.log.Errorf("undoing fence rule: %s", err)
		return false
	}
	app.Focus()
	app.status = "code block removed"
	return true
}
