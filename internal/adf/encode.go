package adf

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var orderedItemRe = regexp.MustCompile(`^\d+\.\s+(.*)$`)

const maxHeadingLen = 50

// FromText parses a plain-text description into an ADF doc node suitable for
// a Jira rich-text field. It never fails: malformed or ambiguous input
// degrades to plain paragraphs, and an empty string yields a doc with empty
// content.
//
// Each physical line is classified in fixed priority order:
//
//  1. Blank lines close any open list and contribute no node.
//  2. Lines starting with "- " become bullet list items; consecutive items
//     coalesce into one bulletList.
//  3. Lines matching "<digits>. " become ordered list items. The written
//     numerals are discarded; item order is positional.
//  4. A short standalone line (under 50 characters, not ending in '.', '?'
//     or '!', followed by a blank line or end of input) becomes a level-2
//     heading. This is a heuristic over existing content, not a markup
//     syntax, and it will classify any short terminator-free isolated line
//     as a heading.
//  5. Anything else becomes its own paragraph with the untrimmed line text.
func FromText(text string) *Node {
	doc := &Node{Type: "doc", Version: 1, Content: []*Node{}}
	if text == "" {
		return doc
	}

	lines := strings.Split(text, "\n")
	var currentList *Node

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			currentList = nil
			continue
		}

		if after, ok := strings.CutPrefix(trimmed, "- "); ok {
			if currentList == nil || currentList.Type != "bulletList" {
				currentList = &Node{Type: "bulletList"}
				doc.Content = append(doc.Content, currentList)
			}
			currentList.Content = append(currentList.Content, listItemNode(after))
			continue
		}

		if m := orderedItemRe.FindStringSubmatch(trimmed); m != nil {
			if currentList == nil || currentList.Type != "orderedList" {
				currentList = &Node{Type: "orderedList"}
				doc.Content = append(doc.Content, currentList)
			}
			currentList.Content = append(currentList.Content, listItemNode(m[1]))
			continue
		}

		currentList = nil

		if isHeading(trimmed, i, lines) {
			doc.Content = append(doc.Content, &Node{
				Type:    "heading",
				Attrs:   map[string]any{"level": 2},
				Content: []*Node{textNode(trimmed)},
			})
			continue
		}

		doc.Content = append(doc.Content, paragraphNode(line))
	}

	return doc
}

// isHeading implements the heading heuristic: the line must be isolated
// (followed by a blank line or the end of input), short, and free of a
// sentence terminator.
func isHeading(trimmed string, idx int, lines []string) bool {
	if utf8.RuneCountInString(trimmed) >= maxHeadingLen {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '?', '!':
		return false
	}
	return idx == len(lines)-1 || strings.TrimSpace(lines[idx+1]) == ""
}
