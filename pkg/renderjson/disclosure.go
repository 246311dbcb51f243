package renderjson

// State is the visibility state of a Disclosure.
type State int

const (
	// Collapsed shows the placeholder. Every disclosure starts here.
	Collapsed State = iota
	// Expanded shows the content.
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Disclosure is a collapsible node. The placeholder always exists; the
// content is built by the builder the first time the node is shown and is
// kept for the lifetime of the tree, so hiding and showing again only flips
// visibility.
type Disclosure struct {
	kind        string
	wrapper     *Element
	placeholder *Element
	content     *Element
	state       State
	builds      int

	build  func() *Element
	hide   Icon
	onShow func(*Disclosure)
}

// newDisclosure assembles the placeholder as
// [show anchor][open][caption anchor][close] inside a span classed kind,
// wrapped with the leading indentation.
func newDisclosure(indent, open, caption, closing, kind string, show, hide Icon, build func() *Element) *Disclosure {
	d := &Disclosure{
		kind:        kind,
		placeholder: createSpan(kind),
		build:       build,
		hide:        hide,
	}
	appendEl(d.placeholder,
		createAnchor(show, "disclosure", d.Show),
		themeText(kind+" syntax", open),
		createAnchor(TextIcon(caption), "", d.Show),
		themeText(kind+" syntax", closing),
	)
	d.wrapper = appendEl(createSpan(""), NewText(trimLastChar(indent)), d.placeholder)
	return d
}

// Show expands the node, building the content on first use.
func (d *Disclosure) Show() {
	if d.content == nil {
		content := d.build()
		d.builds++
		prependEl(content, createAnchor(d.hide, "disclosure", d.Hide))
		d.content = content
		appendEl(d.wrapper, content)
		if d.onShow != nil {
			d.onShow(d)
		}
	}
	d.content.Display = DisplayInline
	d.placeholder.Display = DisplayNone
	d.state = Expanded
}

// Hide collapses the node. Built content is retained.
func (d *Disclosure) Hide() {
	if d.content != nil {
		d.content.Display = DisplayNone
	}
	d.placeholder.Display = DisplayInline
	d.state = Collapsed
}

// Toggle flips between Collapsed and Expanded.
func (d *Disclosure) Toggle() {
	if d.state == Expanded {
		d.Hide()
		return
	}
	d.Show()
}

// State returns the current visibility state.
func (d *Disclosure) State() State { return d.state }

// Kind is the structural type: "array", "object" or "string".
func (d *Disclosure) Kind() string { return d.kind }

// Element is the node inserted into the parent fragment.
func (d *Disclosure) Element() *Element { return d.wrapper }

// Placeholder is the collapsed view.
func (d *Disclosure) Placeholder() *Element { return d.placeholder }

// Content is the expanded view, or nil if it has never been shown.
func (d *Disclosure) Content() *Element { return d.content }

// Builds reports how many times the content builder ran; at most one.
func (d *Disclosure) Builds() int { return d.builds }

func trimLastChar(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}
