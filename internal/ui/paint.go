package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

// Painter turns rendered lines into terminal text.
type Painter struct {
	Styles  Styles
	NoColor bool
	// Width clips each line to this many cells; 0 disables clipping.
	Width int
}

// Line paints one line. Segments for which focused returns true get the
// focus style.
func (p Painter) Line(line renderjson.Line, focused func(*renderjson.Element) bool) string {
	var b strings.Builder
	used := 0
	for _, seg := range line {
		text := seg.Text
		w := runewidth.StringWidth(text)
		clipped := p.Width > 0 && used+w > p.Width
		if clipped {
			text = runewidth.Truncate(text, p.Width-used, "…")
		}
		used += w
		b.WriteString(p.paint(text, seg, focused))
		if clipped {
			break
		}
	}
	return b.String()
}

func (p Painter) paint(text string, seg renderjson.Segment, focused func(*renderjson.Element) bool) string {
	if seg.Anchor != nil && focused != nil && focused(seg.Anchor) {
		if p.NoColor {
			return "[" + text + "]"
		}
		return p.Styles.Focus.Render(text)
	}
	if p.NoColor || text == "" {
		return text
	}
	if st, ok := p.Styles.For(seg.Class); ok {
		return st.Render(text)
	}
	return text
}

// Text paints every visible line of root, newline separated.
func (p Painter) Text(root renderjson.Node) string {
	lines := renderjson.Lines(root)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = p.Line(l, nil)
	}
	return strings.Join(out, "\n")
}
