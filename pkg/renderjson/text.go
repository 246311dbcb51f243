package renderjson

import (
	"strings"
)

// Segment is a run of visible text with the class that styles it. Anchor is
// set when the text belongs to a clickable element.
type Segment struct {
	Text   string
	Class  string
	Anchor *Element
}

// Line is one visual line of a rendered tree.
type Line []Segment

// String returns the plain text of the line.
func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Lines flattens the visible part of the tree into lines, the way the
// preformatted block would appear on screen. Hidden elements are skipped.
func Lines(root Node) []Line {
	lw := &lineWalker{lines: []Line{nil}}
	lw.walk(root, "", nil)
	return lw.lines
}

// PlainText returns the visible text of the tree.
func PlainText(root Node) string {
	lines := Lines(root)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Anchors returns the visible clickable elements in document order.
func Anchors(root Node) []*Element {
	var out []*Element
	seen := map[*Element]bool{}
	for _, l := range Lines(root) {
		for _, s := range l {
			if s.Anchor != nil && !seen[s.Anchor] {
				seen[s.Anchor] = true
				out = append(out, s.Anchor)
			}
		}
	}
	return out
}

type lineWalker struct {
	lines []Line
}

func (lw *lineWalker) walk(n Node, class string, anchor *Element) {
	switch v := n.(type) {
	case *Text:
		lw.emit(v.Data, class, anchor)
	case *Element:
		if v.Hidden() {
			return
		}
		if v.Class != "" {
			class = v.Class
		}
		if v.onActivate != nil {
			anchor = v
		}
		for _, c := range v.Children {
			lw.walk(c, class, anchor)
		}
	}
}

func (lw *lineWalker) emit(text, class string, anchor *Element) {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			lw.lines = append(lw.lines, nil)
		}
		if part == "" {
			continue
		}
		last := len(lw.lines) - 1
		lw.lines[last] = append(lw.lines[last], Segment{Text: part, Class: class, Anchor: anchor})
	}
}

// textContent returns all text under n, hidden or not.
func textContent(n Node) string {
	switch v := n.(type) {
	case *Text:
		return v.Data
	case *Element:
		var sb strings.Builder
		for _, c := range v.Children {
			sb.WriteString(textContent(c))
		}
		return sb.String()
	}
	return ""
}
