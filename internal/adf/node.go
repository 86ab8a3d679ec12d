// Package adf converts between plain text, Atlassian Document Format trees,
// and Markdown. The two transforms are independent and intentionally not
// inverses: the encoder emits a small subset of node types, while the renderer
// accepts arbitrary documents returned by Jira, including node types this
// package never produces.
package adf

// Node is a single node of an ADF document tree. Container nodes carry
// Content, leaves carry Text; Attrs holds node-specific metadata such as
// heading levels or image sources. Nodes are treated as immutable once built.
type Node struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"` // set to 1 on the doc root only
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Content []*Node        `json:"content,omitempty"`
}

// Mark is an inline formatting annotation on a text node (strong, em, code,
// strike, link). A link mark carries its target in Attrs["href"].
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func textNode(text string) *Node {
	return &Node{Type: "text", Text: text}
}

func paragraphNode(text string) *Node {
	return &Node{Type: "paragraph", Content: []*Node{textNode(text)}}
}

func listItemNode(text string) *Node {
	return &Node{Type: "listItem", Content: []*Node{paragraphNode(text)}}
}
