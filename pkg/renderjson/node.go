package renderjson

// Node is a piece of a rendered tree: either an *Element or a *Text.
// Host code may build its own nodes and pass them to Render, in which case
// they are inserted unchanged.
type Node interface {
	// Parent returns the element this node is attached to, or nil.
	Parent() *Element
	setParent(p *Element)
}

// Display values used to toggle element visibility.
const (
	DisplayDefault = ""
	DisplayNone    = "none"
	DisplayInline  = "inline"
)

// Element is a tagged container node. Class holds the space separated theming
// classes assigned by the renderer; the renderer never defines what they look like.
type Element struct {
	Tag      string
	Class    string
	Href     string
	Display  string
	Children []Node

	parent     *Element
	onActivate func(*Event)
}

// Text is a leaf holding literal text.
type Text struct {
	Data string

	parent *Element
}

// NewElement creates an element with the given tag and class.
func NewElement(tag, class string) *Element {
	return &Element{Tag: tag, Class: class}
}

// NewText creates a text node.
func NewText(data string) *Text {
	return &Text{Data: data}
}

func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) setParent(p *Element) { e.parent = p }
func (t *Text) Parent() *Element        { return t.parent }
func (t *Text) setParent(p *Element)    { t.parent = p }

// Hidden reports whether the element is hidden with display:none.
func (e *Element) Hidden() bool {
	return e.Display == DisplayNone
}

// Clickable reports whether the element has an activation handler.
func (e *Element) Clickable() bool {
	return e.onActivate != nil
}

// Append appends children to e. See appendEl for the accepted child types.
func (e *Element) Append(children ...any) *Element {
	return appendEl(e, children...)
}

// Prepend inserts child as the first child of e.
func (e *Element) Prepend(child Node) *Element {
	return prependEl(e, child)
}

// Clone deep-copies the element. Activation handlers are not copied.
func (e *Element) Clone() *Element {
	c := &Element{Tag: e.Tag, Class: e.Class, Href: e.Href, Display: e.Display}
	for _, child := range e.Children {
		appendEl(c, cloneNode(child))
	}
	return c
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Element:
		return v.Clone()
	case *Text:
		return NewText(v.Data)
	default:
		return nil
	}
}

func (e *Element) removeChild(n Node) {
	for i, c := range e.Children {
		if c == n {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			n.setParent(nil)
			return
		}
	}
}

// attach moves n under p, detaching it from its previous parent first.
func attach(p *Element, n Node) {
	if old := n.Parent(); old != nil {
		old.removeChild(n)
	}
	n.setParent(p)
}

// appendEl appends children to el. A child that is a []Node is flattened
// recursively; values that are not nodes are ignored so callers can pass
// optional entries without checking them.
func appendEl(el *Element, children ...any) *Element {
	for _, child := range children {
		switch c := child.(type) {
		case []Node:
			for _, n := range c {
				appendEl(el, n)
			}
		case []any:
			appendEl(el, c...)
		case *Element:
			if c == nil {
				continue
			}
			attach(el, c)
			el.Children = append(el.Children, c)
		case *Text:
			if c == nil {
				continue
			}
			attach(el, c)
			el.Children = append(el.Children, c)
		}
	}
	return el
}

func prependEl(el *Element, child Node) *Element {
	attach(el, child)
	el.Children = append([]Node{child}, el.Children...)
	return el
}

func createSpan(class string) *Element {
	return NewElement("span", class)
}

// themeText builds one span per (class, text) pair. A trailing class without
// text is dropped. An empty class yields a span without a class attribute.
func themeText(pairs ...string) []Node {
	spans := make([]Node, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		spans = append(spans, appendEl(createSpan(pairs[i]), NewText(pairs[i+1])))
	}
	return spans
}

// Event is an activation travelling from a clicked element up to the root.
type Event struct {
	Target  *Element
	stopped bool
}

// StopPropagation prevents ancestors from seeing the event.
func (ev *Event) StopPropagation() {
	ev.stopped = true
}

// Stopped reports whether propagation was stopped.
func (ev *Event) Stopped() bool {
	return ev.stopped
}

// OnActivate installs an activation handler on e, replacing any previous one.
func (e *Element) OnActivate(fn func(*Event)) {
	e.onActivate = fn
}

// Activate dispatches an activation at el. Handlers run from el outward
// until one of them stops propagation.
func Activate(el *Element) *Event {
	ev := &Event{Target: el}
	for n := el; n != nil && !ev.stopped; n = n.parent {
		if n.onActivate != nil {
			n.onActivate(ev)
		}
	}
	return ev
}

// createAnchor returns a clickable link that runs callback once per
// activation and keeps the activation from reaching enclosing anchors.
func createAnchor(label Icon, class string, callback func()) *Element {
	a := NewElement("a", class)
	a.Href = "#"
	appendEl(a, label.node())
	a.onActivate = func(ev *Event) {
		callback()
		ev.StopPropagation()
	}
	return a
}
