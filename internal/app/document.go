package app

import (
	"strings"

	"inlay/internal/classify"
	"inlay/internal/doc"
)

// Node types of the demo document schema.
var (
	// Paragraph is ordinary host text, one line per block.
	Paragraph = &doc.NodeType{Name: "paragraph", Text: true}

	// CodeBlock is an embedded code region backed by an editor binding.
	CodeBlock = &doc.NodeType{Name: "code_block", Text: true, Code: true, SelectableAsNode: true}

	// Divider is a leaf rule between sections.
	Divider = &doc.NodeType{Name: "divider", SelectableAsNode: true}
)

// sampleText is the built-in demo document used when no path is given.
const sampleText = "Inlay demo. Arrow into a code block to edit it; arrows at its edges escape.\n" +
	"---\n" +
	"```{r setup}\n" +
	"x <- rnorm(100)\n" +
	"mean(x)\n" +
	"```\n" +
	"Press Ctrl-Enter inside a runnable block to execute it, Shift-Enter to exit.\n" +
	"```python\n" +
	"print(\"hello\")\n" +
	"```\n" +
	"Type ``` and a language on its own line to create a block; backspace undoes it.\n"

// ParseDocument builds a host document from fenced text. Each non-blank
// line becomes a paragraph, a line of three dashes becomes a divider, and
// a ``` fence opens a code block running to the closing fence or the end
// of input. Brace-style fence info like {r setup} stays in the block text
// as its first line, the way chunk headers are edited inline; a bare
// language word becomes the block's language attribute instead.
func ParseDocument(text string) *doc.Document {
	var blocks []*doc.Node

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "```"):
			info := strings.TrimSpace(line[3:])
			var body []string
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "```" {
					break
				}
				body = append(body, lines[i])
			}
			blocks = append(blocks, codeNode(info, strings.Join(body, "\n")))
		case strings.TrimSpace(line) == "---":
			blocks = append(blocks, doc.NewNode(Divider, "", nil))
		case strings.TrimSpace(line) != "":
			blocks = append(blocks, doc.NewNode(Paragraph, line, nil))
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, doc.NewNode(Paragraph, "", nil))
	}
	return doc.New(blocks...)
}

// codeNode builds a code block from fence info and body text.
func codeNode(info, body string) *doc.Node {
	if strings.HasPrefix(info, "{") {
		text := info
		if body != "" {
			text += "\n" + body
		}
		var attrs map[string]string
		if lang, _, _, ok := classify.ParseFenceHeader(info); ok {
			attrs = map[string]string{"language": lang}
		}
		return doc.NewNode(CodeBlock, text, attrs)
	}

	var attrs map[string]string
	if info != "" {
		attrs = map[string]string{"language": strings.ToLower(info)}
	}
	return doc.NewNode(CodeBlock, body, attrs)
}

// SerializeDocument renders a host document back to fenced text, the
// inverse of ParseDocument for documents without blank paragraphs.
func SerializeDocument(d *doc.Document) string {
	var sb strings.Builder
	for _, blk := range d.Blocks() {
		switch blk.Type() {
		case Divider:
			sb.WriteString("---\n")
		case CodeBlock:
			text := blk.TextContent()
			first, rest, multi := strings.Cut(text, "\n")
			if strings.HasPrefix(first, "{") {
				sb.WriteString("```" + first + "\n")
				if multi && rest != "" {
					sb.WriteString(rest + "\n")
				}
			} else {
				sb.WriteString("```" + blk.Attr("language") + "\n")
				if text != "" {
					sb.WriteString(text + "\n")
				}
			}
			sb.WriteString("```\n")
		default:
			sb.WriteString(blk.TextContent() + "\n")
		}
	}
	return sb.String()
}
