// Package page wraps a rendered tree in a standalone HTML document.
package page

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

// DefaultCSS styles the classes emitted by renderjson.
const DefaultCSS = `body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
.renderjson { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; font-family: Monaco, Menlo, monospace; }
.renderjson a { text-decoration: none; }
.renderjson .disclosure { color: #facc15; font-size: 110%; }
.renderjson .syntax { color: #94a3b8; }
.renderjson .string { color: #86efac; }
.renderjson .number { color: #67e8f9; }
.renderjson .boolean { color: #fdba74; }
.renderjson .key { color: #7dd3fc; }
.renderjson .keyword { color: #d8b4fe; }
.renderjson .object.syntax, .renderjson .array.syntax { color: #94a3b8; }
`

// Options control the surrounding document.
type Options struct {
	Title string
	// Preamble is markdown rendered above the tree.
	Preamble []byte
	// CSS replaces DefaultCSS when non-empty.
	CSS string
}

// LoadOptions reads the optional preamble and stylesheet files.
func LoadOptions(title, preamblePath, cssPath string) (Options, error) {
	opts := Options{Title: title}
	if preamblePath != "" {
		data, err := os.ReadFile(preamblePath)
		if err != nil {
			return opts, fmt.Errorf("read preamble: %w", err)
		}
		opts.Preamble = data
	}
	if cssPath != "" {
		data, err := os.ReadFile(cssPath)
		if err != nil {
			return opts, fmt.Errorf("read css: %w", err)
		}
		opts.CSS = string(data)
	}
	return opts, nil
}

// Markdown converts markdown to HTML with the common extensions and
// auto heading IDs.
func Markdown(src []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(src)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}

// Write emits a full HTML document containing root.
func Write(w io.Writer, root *renderjson.Element, opts Options) error {
	var buf bytes.Buffer
	writeHeader(&buf, opts)
	if len(bytes.TrimSpace(opts.Preamble)) > 0 {
		buf.Write(Markdown(opts.Preamble))
		buf.WriteByte('\n')
	}
	if err := renderjson.WriteHTML(&buf, root); err != nil {
		return err
	}
	buf.WriteByte('\n')
	writeFooter(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

// String is Write into a string.
func String(root *renderjson.Element, opts Options) (string, error) {
	var sb bytes.Buffer
	if err := Write(&sb, root, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeHeader(w io.Writer, opts Options) {
	title := opts.Title
	if title == "" {
		title = "renderjson"
	}
	css := opts.CSS
	if css == "" {
		css = DefaultCSS
	}
	fmt.Fprintf(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style>
%s  </style>
</head>
<body>
`, html.EscapeString(title), css)
}

func writeFooter(w io.Writer) {
	fmt.Fprint(w, `</body>
</html>
`)
}
