package adf

import (
	"fmt"
	"strings"
)

// ToMarkdown renders a decoded ADF document into Markdown. The input is the
// JSON shape Jira returns for rich-text fields: either a full doc object or a
// raw content sequence. It is a total function over arbitrary input; unknown
// node types render as their concatenated children, missing fields render as
// empty strings, and non-object input yields "".
func ToMarkdown(v any) string {
	switch doc := v.(type) {
	case map[string]any:
		return renderBlocks(doc["content"])
	case []any:
		return renderBlocks(doc)
	default:
		return ""
	}
}

// renderBlocks joins top-level block nodes with blank lines.
func renderBlocks(v any) string {
	nodes, ok := v.([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(nodes))
	for _, item := range nodes {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		parts = append(parts, renderNode(node))
	}
	return strings.Join(parts, "\n\n")
}

func renderNode(node map[string]any) string {
	nodeType, _ := node["type"].(string)

	switch nodeType {
	case "doc":
		return renderBlocks(node["content"])
	case "paragraph":
		return renderChildren(node, "")
	case "text":
		return renderText(node)
	case "heading":
		level := intAttr(node, "level", 1)
		return strings.Repeat("#", level) + " " + renderChildren(node, "")
	case "bulletList":
		return renderList(node, func(int) string { return "- " })
	case "orderedList":
		return renderList(node, func(i int) string { return fmt.Sprintf("%d. ", i+1) })
	case "listItem":
		return renderChildren(node, "\n")
	case "codeBlock":
		lang := strAttr(node, "language")
		return "```" + lang + "\n" + renderChildren(node, "\n") + "\n```"
	case "blockquote":
		lines := strings.Split(renderChildren(node, "\n"), "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	case "rule":
		return "---"
	case "table":
		return renderTable(node)
	case "image":
		return "![" + strAttr(node, "alt") + "](" + strAttr(node, "src") + ")"
	case "hardBreak":
		return "\n"
	default:
		// Forward compatibility: Jira emits node types this package never
		// produces (panels, media, mentions). Render their children bare.
		return renderChildren(node, "")
	}
}

func renderChildren(node map[string]any, sep string) string {
	children, ok := node["content"].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(children))
	for _, item := range children {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		parts = append(parts, renderNode(child))
	}
	return strings.Join(parts, sep)
}

// renderText applies marks as nested wrapping in the order they appear, so
// [strong, em] on "x" yields "***x***".
func renderText(node map[string]any) string {
	text, _ := node["text"].(string)
	marks, _ := node["marks"].([]any)
	for _, m := range marks {
		mark, ok := m.(map[string]any)
		if !ok {
			continue
		}
		switch mark["type"] {
		case "strong":
			text = "**" + text + "**"
		case "em":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "link":
			href := ""
			if attrs, ok := mark["attrs"].(map[string]any); ok {
				href, _ = attrs["href"].(string)
			}
			text = "[" + text + "](" + href + ")"
		}
	}
	return text
}

// renderList renders each list item with its prefix and re-indents the item's
// internal lines by two spaces, so nested lists gain one level of indentation
// per ancestor item.
func renderList(node map[string]any, prefix func(i int) string) string {
	items, ok := node["content"].([]any)
	if !ok {
		return ""
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		rendered := strings.ReplaceAll(renderNode(item), "\n", "\n  ")
		lines = append(lines, prefix(i)+rendered)
	}
	return strings.Join(lines, "\n")
}

// renderTable formats rows as "| cell | cell |" lines. The first row is
// always treated as the header and is followed by a "---" separator per
// column, regardless of any semantic header marking on the cells. Rows whose
// content is not a sequence are skipped.
func renderTable(node map[string]any) string {
	rows, ok := node["content"].([]any)
	if !ok {
		return ""
	}

	var lines []string
	headerCols := 0
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		cells, ok := row["content"].([]any)
		if !ok {
			continue
		}

		rendered := make([]string, 0, len(cells))
		for _, c := range cells {
			cell, ok := c.(map[string]any)
			if !ok {
				continue
			}
			rendered = append(rendered, strings.ReplaceAll(renderNode(cell), "|", "\\|"))
		}

		lines = append(lines, "| "+strings.Join(rendered, " | ")+" |")
		if len(lines) == 1 {
			headerCols = len(rendered)
		}
	}

	if len(lines) == 0 {
		return ""
	}

	separators := make([]string, headerCols)
	for i := range separators {
		separators[i] = "---"
	}
	separator := "| " + strings.Join(separators, " | ") + " |"

	out := []string{lines[0], separator}
	out = append(out, lines[1:]...)
	return strings.Join(out, "\n")
}

func intAttr(node map[string]any, key string, fallback int) int {
	attrs, ok := node["attrs"].(map[string]any)
	if !ok {
		return fallback
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func strAttr(node map[string]any, key string) string {
	attrs, ok := node["attrs"].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}
