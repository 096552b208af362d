// Package chunk extracts runnable code chunks from code nodes: the chunk
// header is split from the body, and chunks preceding a document position
// can be merged into one runnable unit for run-all-above style execution.
package chunk

import (
	"strings"

	"inlay/internal/classify"
	"inlay/internal/doc"
)

// Chunk is one runnable unit of code.
type Chunk struct {
	// Language is the chunk's language tag, lower-cased. Empty when the
	// node has no recognizable header.
	Language string

	// Label is the optional chunk label from the header.
	Label string

	// Options holds key=value options from the header, values verbatim.
	Options map[string]string

	// Code is the chunk body with the header line removed.
	Code string
}

// IsEmpty returns true for a chunk with no code and no language.
func (c Chunk) IsEmpty() bool {
	return c.Language == "" && c.Code == ""
}

// Extract splits a code node's raw text into a chunk. The first line is
// consumed as the header when it parses as one; otherwise the whole text
// becomes the body of a language-less chunk.
func Extract(text string) Chunk {
	head, body, hasBody := strings.Cut(text, "\n")
	lang, label, opts, ok := classify.ParseFenceHeader(head)
	if !ok {
		return Chunk{Code: text}
	}
	if !hasBody {
		body = ""
	}
	return Chunk{Language: lang, Label: label, Options: opts, Code: body}
}

// MergePreceding collects the chunks of all code blocks starting strictly
// before pos whose language the matcher accepts, in document order, and
// merges their bodies into one chunk. The merged chunk takes the language
// of the last contributing chunk. Returns the zero Chunk when nothing
// qualifies.
func MergePreceding(d *doc.Document, pos int, m *classify.Matcher) Chunk {
	var (
		codes []string
		lang  string
	)
	start := 0
	for _, b := range d.Blocks() {
		if start >= pos {
			break
		}
		if b.Type().Code {
			ch := Extract(b.TextContent())
			if m.Match(ch.Language) {
				codes = append(codes, ch.Code)
				lang = ch.Language
			}
		}
		start += b.NodeSize()
	}
	if len(codes) == 0 {
		return Chunk{}
	}
	return Chunk{Language: lang, Code: strings.Join(codes, "\n")}
}
