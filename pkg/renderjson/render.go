package renderjson

import (
	"sort"
)

// indentUnit is added for every nesting level.
const indentUnit = "    "

// RootClass is the class of the <pre> element returned by Render.
const RootClass = "renderjson"

// Tree is the result of a render: the root element plus every disclosure
// created so far. Disclosures built later by expanding a node are appended
// as they appear.
type Tree struct {
	Root        *Element
	disclosures []*Disclosure
	// owners maps placeholders and built contents to their disclosure.
	owners map[*Element]*Disclosure
}

// Disclosures returns the disclosures in creation order.
func (t *Tree) Disclosures() []*Disclosure {
	return append([]*Disclosure(nil), t.disclosures...)
}

// DisclosureFor returns the disclosure owning the given anchor or placeholder
// element, if any.
func (t *Tree) DisclosureFor(el *Element) (*Disclosure, bool) {
	for n := el; n != nil; n = n.parent {
		if d, ok := t.owners[n]; ok {
			return d, true
		}
	}
	return nil, false
}

func (t *Tree) track(d *Disclosure) {
	t.disclosures = append(t.disclosures, d)
	t.owners[d.placeholder] = d
}

// Render renders v with these options.
func (o Options) Render(v any) (*Tree, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Replacer == nil {
		o.Replacer = identityReplacer
	}
	if o.Logger.GetSink() == nil {
		o.Logger = DefaultOptions().Logger
	}
	tree := &Tree{owners: make(map[*Element]*Disclosure)}
	r := &renderer{opts: o, tree: tree, placed: make(map[Node]bool)}
	o.Logger.V(1).Info("rendering value", "showToLevel", o.ShowToLevel, "maxStringLength", o.MaxStringLength, "sortObjects", o.SortObjects)

	pre := NewElement("pre", RootClass)
	appendEl(pre, r.render(v, "", false, o.ShowToLevel))
	tree.Root = pre
	return tree, nil
}

type renderer struct {
	opts Options
	tree *Tree
	// placed records pre-built nodes already inserted into the tree.
	placed map[Node]bool
}

// render returns the fragment for v. indent is the indentation of the
// enclosing context; dontIndent suppresses the leading indent when the
// parent already wrote it (object values follow their key on the same line).
func (r *renderer) render(v any, indent string, dontIndent bool, level int) []Node {
	myIndent := indent
	if dontIndent {
		myIndent = ""
	}

	val := classify(v)
	val.raw = v
	switch val.kind {
	case KindNode:
		// A node has a single parent, so later occurrences of the same node
		// render as copies without activation handlers.
		if r.placed[val.node] {
			return []Node{cloneNode(val.node)}
		}
		r.placed[val.node] = true
		return []Node{val.node}
	case KindNull:
		return themeText("", myIndent, "keyword", "null")
	case KindUndefined:
		return themeText("", myIndent, "keyword", "undefined")
	case KindString:
		if !val.date && runeLen(val.str) > r.opts.MaxStringLength {
			return r.truncatedString(val, myIndent, level)
		}
		return themeText("", myIndent, "string", val.text)
	case KindBool, KindNumber:
		return themeText("", myIndent, val.kind.String(), val.text)
	case KindArray:
		if len(val.arr) == 0 {
			return themeText("", myIndent, "array syntax", "[]")
		}
		return r.array(val, indent, myIndent, level)
	default:
		if r.isEmpty(val.obj) {
			return themeText("", myIndent, "object syntax", "{}")
		}
		return r.object(val, indent, myIndent, level)
	}
}

// disclosure creates a collapsible node and expands it right away when
// the level budget allows. Strings are never expanded automatically.
func (r *renderer) disclosure(myIndent, open, caption, closing, kind string, level int, build func() *Element) []Node {
	d := newDisclosure(myIndent, open, caption, closing, kind, r.opts.Show, r.opts.Hide, build)
	d.onShow = func(d *Disclosure) {
		r.tree.owners[d.content] = d
		r.opts.Logger.V(2).Info("built disclosure content", "kind", d.kind)
	}
	r.tree.track(d)
	if level > 0 && kind != "string" {
		d.Show()
	}
	return []Node{d.Element()}
}

func (r *renderer) truncatedString(val value, myIndent string, level int) []Node {
	preview := runePrefix(val.str, r.opts.MaxStringLength) + " ..."
	// The wrapper already carries the indentation and the hide anchor sits
	// in its last column, so the full string follows without indent.
	return r.disclosure(myIndent, `"`, preview, `"`, "string", level, func() *Element {
		return appendEl(createSpan("string"), themeText("string", val.text))
	})
}

func (r *renderer) array(val value, indent, myIndent string, level int) []Node {
	arr := val.arr
	return r.disclosure(myIndent, "[", r.opts.CollapseMsg(len(arr)), "]", "array", level, func() *Element {
		as := appendEl(createSpan("array"), themeText("array syntax", "[", "", "\n"))
		for i, item := range arr {
			var comma []Node
			if i != len(arr)-1 {
				comma = themeText("syntax", ",")
			}
			appendEl(as,
				r.render(r.opts.Replacer(val.raw, i, item), indent+indentUnit, false, level-1),
				comma,
				NewText("\n"),
			)
		}
		return appendEl(as, themeText("", indent, "array syntax", "]"))
	})
}

func (r *renderer) object(val value, indent, myIndent string, level int) []Node {
	obj := val.obj
	return r.disclosure(myIndent, "{", r.opts.CollapseMsg(obj.Len()), "}", "object", level, func() *Element {
		ob := appendEl(createSpan("object"), themeText("object syntax", "{", "", "\n"))

		keys := r.opts.PropertyList
		if keys == nil {
			keys = obj.Keys()
		}
		if r.opts.SortObjects {
			keys = append([]string(nil), keys...)
			sort.Strings(keys)
		}

		// The comma decision looks at the object's own last key, not at the
		// last key displayed, so filtered or sorted output may end on a comma.
		var lastKey string
		if n := obj.Len(); n > 0 {
			lastKey = obj.keys[n-1]
		}

		for _, k := range keys {
			child, ok := obj.Get(k)
			if !ok {
				continue
			}
			var comma []Node
			if k != lastKey {
				comma = themeText("syntax", ",")
			}
			appendEl(ob,
				themeText("", indent+indentUnit, "key", quote(k), "object syntax", ": "),
				r.render(r.opts.Replacer(val.raw, k, child), indent+indentUnit, true, level-1),
				comma,
				NewText("\n"),
			)
		}
		return appendEl(ob, themeText("", indent, "object syntax", "}"))
	})
}

// isEmpty reports whether no key would be rendered: with a property list,
// none of the listed keys is present; otherwise the object has no keys.
func (r *renderer) isEmpty(obj *Object) bool {
	keys := r.opts.PropertyList
	if keys == nil {
		return obj.Len() == 0
	}
	for _, k := range keys {
		if obj.Has(k) {
			return false
		}
	}
	return true
}
