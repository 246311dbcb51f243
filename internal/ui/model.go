package ui

import (
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// stop is one focusable affordance. The show icon and caption of a
// collapsed placeholder share a stop because they toggle the same
// disclosure.
type stop struct {
	owner  any // *renderjson.Disclosure, or the anchor itself
	anchor *renderjson.Element
	line   int
}

// Model browses a rendered tree. Focus moves between visible affordances
// and activating one expands or collapses its disclosure.
type Model struct {
	tree    *renderjson.Tree
	lines   []renderjson.Line
	stops   []stop
	focus   int
	offset  int
	width   int
	height  int
	title   string
	noColor bool
	painter Painter
	keys    keyMap
	help    help.Model

	quitting bool
}

// NewModel returns a model over tree.
func NewModel(tree *renderjson.Tree, theme Theme, noColor bool) *Model {
	styles := NewStyles(theme)
	h := help.New()
	if !noColor {
		h.Styles.ShortKey = styles.HelpKey
		h.Styles.ShortDesc = styles.HelpValue
		h.Styles.FullKey = styles.HelpKey
		h.Styles.FullDesc = styles.HelpValue
	} else {
		h.Styles = help.Styles{}
	}
	m := &Model{
		tree:    tree,
		width:   defaultWidth,
		height:  defaultHeight,
		noColor: noColor,
		painter: Painter{Styles: styles, NoColor: noColor},
		keys:    defaultKeyMap(),
		help:    h,
	}
	m.refresh(nil)
	return m
}

// SetTitle sets the header line, typically the input name.
func (m *Model) SetTitle(title string) { m.title = title }

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.help.SetWidth(m.width)
	m.scrollToFocus()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.moveFocus(m.focus + 1)
		case key.Matches(msg, m.keys.Prev):
			m.moveFocus(m.focus - 1)
		case key.Matches(msg, m.keys.First):
			m.moveFocus(0)
		case key.Matches(msg, m.keys.Last):
			m.moveFocus(len(m.stops) - 1)
		case key.Matches(msg, m.keys.PageDown):
			m.scroll(m.bodyHeight())
		case key.Matches(msg, m.keys.PageUp):
			m.scroll(-m.bodyHeight())
		case key.Matches(msg, m.keys.Activate):
			m.activate()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.scrollToFocus()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the screen content.
func (m *Model) Render() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.title != "" {
		title := m.title
		if !m.noColor {
			title = lipgloss.NewStyle().Bold(true).Render(title)
		}
		b.WriteString(title + "\n")
	}

	p := m.painter
	p.Width = m.width
	focused := m.focusedOwner()
	isFocused := func(a *renderjson.Element) bool {
		return focused != nil && m.ownerOf(a) == focused
	}
	end := min(m.offset+m.bodyHeight(), len(m.lines))
	for i := m.offset; i < end; i++ {
		b.WriteString(p.Line(m.lines[i], isFocused))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Focused returns the focused anchor, or nil when the tree has none.
func (m *Model) Focused() *renderjson.Element {
	if m.focus < 0 || m.focus >= len(m.stops) {
		return nil
	}
	return m.stops[m.focus].anchor
}

// Offset returns the index of the first visible line.
func (m *Model) Offset() int { return m.offset }

// Lines returns the number of visible tree lines.
func (m *Model) Lines() int { return len(m.lines) }

func (m *Model) moveFocus(i int) {
	if len(m.stops) == 0 {
		return
	}
	m.focus = max(0, min(i, len(m.stops)-1))
	m.scrollToFocus()
}

func (m *Model) activate() {
	a := m.Focused()
	if a == nil {
		return
	}
	owner := m.ownerOf(a)
	renderjson.Activate(a)
	m.refresh(owner)
}

// refresh recomputes lines and stops after the tree changed, keeping focus
// on keep when it is still visible.
func (m *Model) refresh(keep any) {
	m.lines = renderjson.Lines(m.tree.Root)
	m.stops = m.stops[:0]
	seen := map[any]bool{}
	for i, line := range m.lines {
		for _, seg := range line {
			if seg.Anchor == nil {
				continue
			}
			owner := m.ownerOf(seg.Anchor)
			if seen[owner] {
				continue
			}
			seen[owner] = true
			m.stops = append(m.stops, stop{owner: owner, anchor: seg.Anchor, line: i})
		}
	}
	if keep != nil {
		for i, s := range m.stops {
			if s.owner == keep {
				m.focus = i
				break
			}
		}
	}
	m.focus = max(0, min(m.focus, len(m.stops)-1))
	m.scrollToFocus()
}

func (m *Model) ownerOf(a *renderjson.Element) any {
	if d, ok := m.tree.DisclosureFor(a); ok {
		return d
	}
	return a
}

func (m *Model) focusedOwner() any {
	if m.focus < 0 || m.focus >= len(m.stops) {
		return nil
	}
	return m.stops[m.focus].owner
}

func (m *Model) bodyHeight() int {
	reserved := strings.Count(m.help.View(m.keys), "\n") + 1
	if m.title != "" {
		reserved++
	}
	return max(1, m.height-reserved)
}

func (m *Model) scroll(delta int) {
	maxOffset := max(0, len(m.lines)-m.bodyHeight())
	m.offset = max(0, min(m.offset+delta, maxOffset))
}

func (m *Model) scrollToFocus() {
	if m.focus < 0 || m.focus >= len(m.stops) {
		m.scroll(0)
		return
	}
	line := m.stops[m.focus].line
	h := m.bodyHeight()
	switch {
	case line < m.offset:
		m.offset = line
	case line >= m.offset+h:
		m.offset = line - h + 1
	}
	m.scroll(0)
}
