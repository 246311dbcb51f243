package renderjson

import (
	"bufio"
	"html"
	"io"
	"strings"
)

// WriteHTML serializes n as HTML. Hidden elements keep their content and are
// written with an inline display style, matching what a browser DOM would hold.
func WriteHTML(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n)
	return bw.Flush()
}

// HTML returns the HTML serialization of n.
func HTML(n Node) string {
	var sb strings.Builder
	_ = WriteHTML(&sb, n)
	return sb.String()
}

func writeNode(w *bufio.Writer, n Node) {
	switch v := n.(type) {
	case *Text:
		w.WriteString(html.EscapeString(v.Data))
	case *Element:
		w.WriteByte('<')
		w.WriteString(v.Tag)
		if v.Class != "" {
			writeAttr(w, "class", v.Class)
		}
		if v.Href != "" {
			writeAttr(w, "href", v.Href)
		}
		if v.Display != DisplayDefault {
			writeAttr(w, "style", "display: "+v.Display)
		}
		w.WriteByte('>')
		for _, c := range v.Children {
			writeNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(v.Tag)
		w.WriteByte('>')
	}
}

func writeAttr(w *bufio.Writer, name, val string) {
	w.WriteByte(' ')
	w.WriteString(name)
	w.WriteString(`="`)
	w.WriteString(html.EscapeString(val))
	w.WriteByte('"')
}
