package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

// RunOptions configures Run.
type RunOptions struct {
	Title   string
	Theme   Theme
	NoColor bool
	// Width and Height of 0 are detected from the terminal.
	Width  int
	Height int
}

// Run starts the interactive browser over tree and blocks until the user
// quits. Extra ProgramOptions (custom IO in tests) are passed through.
func Run(tree *renderjson.Tree, opts RunOptions, progOpts ...tea.ProgramOption) error {
	m := NewModel(tree, opts.Theme, opts.NoColor)
	m.SetTitle(opts.Title)

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if w <= 0 {
				w = tw
			}
			if h <= 0 {
				h = th
			}
		}
	}
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	m.SetSize(w, h)
	progOpts = append(progOpts, tea.WithWindowSize(w, h))

	_, err := tea.NewProgram(m, progOpts...).Run()
	return err
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
