package doc

import "fmt"

// NodeType is a static descriptor shared by all nodes of one kind. The
// capability flags replace dynamic probing: whether a node can be selected
// as a unit, or carries editable text, is declared here once.
type NodeType struct {
	// Name identifies the type, e.g. "paragraph", "rmd_chunk".
	Name string

	// Text marks block types whose content is editable text.
	Text bool

	// Code marks text blocks backed by an embedded editor binding.
	Code bool

	// SelectableAsNode marks types that support whole-node selection.
	SelectableAsNode bool
}

// String returns the type name.
func (t *NodeType) String() string {
	return t.Name
}

// Node is one immutable block of the host document. Mutations go through
// transactions, which replace the affected node with a fresh instance.
type Node struct {
	typ   *NodeType
	text  string
	attrs map[string]string
}

// NewNode creates a node of the given type. Text is ignored for non-text
// types. The attrs map is copied.
func NewNode(t *NodeType, text string, attrs map[string]string) *Node {
	n := &Node{typ: t}
	if t.Text {
		n.text = text
	}
	if len(attrs) > 0 {
		n.attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			n.attrs[k] = v
		}
	}
	return n
}

// Type returns the node's static type descriptor.
func (n *Node) Type() *NodeType {
	return n.typ
}

// TextContent returns the node's text content. Empty for leaf types.
func (n *Node) TextContent() string {
	return n.text
}

// NodeSize returns the node's total span in position units: content length
// plus one boundary marker on each side for text types, a single unit for
// leaf types.
func (n *Node) NodeSize() int {
	if n.typ.Text {
		return len(n.text) + 2
	}
	return 1
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	return n.attrs[name]
}

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() map[string]string {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// WithText returns a copy of the node carrying the given text content.
func (n *Node) WithText(text string) *Node {
	return NewNode(n.typ, text, n.attrs)
}

// WithAttr returns a copy of the node with one attribute set.
func (n *Node) WithAttr(name, value string) *Node {
	attrs := n.Attrs()
	if attrs == nil {
		attrs = make(map[string]string, 1)
	}
	attrs[name] = value
	return NewNode(n.typ, n.text, attrs)
}

// SameType returns true if the other node shares this node's type.
func (n *Node) SameType(other *Node) bool {
	return other != nil && n.typ == other.typ
}

// String returns a short description for debugging.
func (n *Node) String() string {
	if n.typ.Text {
		return fmt.Sprintf("%s(%q)", n.typ.Name, n.text)
	}
	return n.typ.Name
}
