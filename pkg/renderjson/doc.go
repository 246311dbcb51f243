// Package renderjson renders JSON-compatible values as collapsible trees.
//
// Render returns a Tree whose Root is a <pre class="renderjson"> element.
// Arrays, objects and over-long strings become disclosures: a placeholder
// such as "⊕{3 items}" that builds its expanded content the first time it is
// activated and only toggles visibility after that.
//
//	tree, err := renderjson.NewConfig().
//		SetShowToLevel(1).
//		SetMaxStringLength(40).
//		SetSortObjects(true).
//		Render(value)
//
// Hosts drive the tree by calling Activate on a clickable element (see
// Anchors and Lines) and present it with WriteHTML, PlainText or their own walk
// over the element tree. Elements carry theming classes only: syntax, string,
// number, boolean, key, keyword, object, array and disclosure.
//
// Values containing reference cycles are not supported.
package renderjson
