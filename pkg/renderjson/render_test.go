package renderjson

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderText(t *testing.T, cfg *Config, v any) (*Tree, string) {
	t.Helper()
	tree, err := cfg.Render(v)
	require.NoError(t, err)
	return tree, PlainText(tree.Root)
}

func TestRender_ReturnsSinglePreRoot(t *testing.T) {
	values := []any{
		nil,
		Undefined,
		true,
		42,
		3.5,
		"text",
		[]any{},
		[]any{1, []any{2, NewObject("x", nil)}},
		NewObject(),
		NewObject("a", NewObject("b", []any{1, 2})),
		map[string]any{"k": "v"},
	}
	for _, v := range values {
		tree, err := NewConfig().SetShowToLevel(All).Render(v)
		require.NoError(t, err)
		require.NotNil(t, tree.Root)
		assert.Equal(t, "pre", tree.Root.Tag)
		assert.Equal(t, RootClass, tree.Root.Class)
		assert.Nil(t, tree.Root.Parent())
	}
}

func TestRender_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		class string
	}{
		{"null", nil, "null", "keyword"},
		{"undefined", Undefined, "undefined", "keyword"},
		{"true", true, "true", "boolean"},
		{"int", 42, "42", "number"},
		{"float", 1.5, "1.5", "number"},
		{"uint8", uint8(7), "7", "number"},
		{"string", "a\"b", `"a\"b"`, "string"},
		{"html not escaped", "<b>", `"<b>"`, "string"},
		{"pointer", ptr("hi"), `"hi"`, "string"},
		{"nil pointer", (*int)(nil), "null", "keyword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, text := renderText(t, NewConfig(), tt.value)
			assert.Equal(t, tt.want, text)
			lines := Lines(tree.Root)
			require.Len(t, lines, 1)
			require.Len(t, lines[0], 1)
			assert.Equal(t, tt.class, lines[0][0].Class)
			assert.Empty(t, tree.Disclosures())
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestRender_PrebuiltNodePassthrough(t *testing.T) {
	custom := NewElement("em", "custom").Append(NewText("hello"))
	tree, err := NewConfig().SetShowToLevel(All).Render(NewObject("x", custom))
	require.NoError(t, err)
	assert.Same(t, custom, tree.Root.Children[0].(*Element).Children[2].(*Element).Children[6])
	assert.Contains(t, PlainText(tree.Root), `"x": hello`)
}

func TestRender_EmptyContainersAreLeaves(t *testing.T) {
	tree, text := renderText(t, NewConfig(), []any{})
	assert.Equal(t, "[]", text)
	assert.Empty(t, tree.Disclosures())
	assert.Equal(t, "array syntax", Lines(tree.Root)[0][0].Class)

	tree, text = renderText(t, NewConfig(), NewObject())
	assert.Equal(t, "{}", text)
	assert.Empty(t, tree.Disclosures())
	assert.Equal(t, "object syntax", Lines(tree.Root)[0][0].Class)
}

func TestRender_CollapsedByDefault(t *testing.T) {
	tree, text := renderText(t, NewConfig(), NewObject("a", 1, "b", 2))
	assert.Equal(t, "⊕{2 items}", text)
	require.Len(t, tree.Disclosures(), 1)
	d := tree.Disclosures()[0]
	assert.Equal(t, Collapsed, d.State())
	assert.Nil(t, d.Content())
	assert.Equal(t, 0, d.Builds())
}

func TestRender_CollapseCaption(t *testing.T) {
	_, text := renderText(t, NewConfig(), []any{1, 2, 3})
	assert.Equal(t, "⊕[3 items]", text)

	_, text = renderText(t, NewConfig(), []any{"only"})
	assert.Equal(t, "⊕[1 item]", text)

	custom := NewConfig().SetCollapseMsg(func(n int) string { return strings.Repeat("*", n) })
	_, text = renderText(t, custom, []any{1, 2})
	assert.Equal(t, "⊕[**]", text)
}

func TestRender_ExpandedObjectLayout(t *testing.T) {
	_, text := renderText(t, NewConfig().SetShowToLevel(1), NewObject("a", 1, "b", "x"))
	want := "⊖{\n" +
		`    "a": 1,` + "\n" +
		`    "b": "x"` + "\n" +
		"}"
	assert.Equal(t, want, text)
}

func TestRender_ExpandedNestedLayout(t *testing.T) {
	v := NewObject("list", []any{1, []any{true}}, "empty", []any{})
	_, text := renderText(t, NewConfig().SetShowToLevel(All), v)
	want := "⊖{\n" +
		`    "list": ⊖[` + "\n" +
		"        1,\n" +
		"       ⊖[\n" +
		"            true\n" +
		"        ]\n" +
		"    ],\n" +
		`    "empty": []` + "\n" +
		"}"
	assert.Equal(t, want, text)
}

func TestRender_DepthAutoExpansion(t *testing.T) {
	v := NewObject("a", NewObject("b", 1))

	tree, text := renderText(t, NewConfig().SetShowToLevel(1), v)
	assert.Equal(t, "⊖{\n    \"a\": ⊕{1 item}\n}", text)
	ds := tree.Disclosures()
	require.Len(t, ds, 2)
	assert.Equal(t, Expanded, ds[0].State())
	assert.Equal(t, Collapsed, ds[1].State())

	tree, text = renderText(t, NewConfig().SetShowToLevel(0), v)
	assert.Equal(t, "⊕{1 item}", text)
	require.Len(t, tree.Disclosures(), 1)
	assert.Equal(t, Collapsed, tree.Disclosures()[0].State())
}

func TestRender_KeyOrdering(t *testing.T) {
	v := NewObject("b", 1, "a", 2)

	_, text := renderText(t, NewConfig().SetShowToLevel(1), v)
	assert.Less(t, strings.Index(text, `"b"`), strings.Index(text, `"a"`))

	_, text = renderText(t, NewConfig().SetShowToLevel(1).SetSortObjects(true), v)
	assert.Less(t, strings.Index(text, `"a"`), strings.Index(text, `"b"`))
}

func TestRender_MapsEnumerateSorted(t *testing.T) {
	_, text := renderText(t, NewConfig().SetShowToLevel(1), map[string]int{"z": 1, "m": 2, "a": 3})
	assert.Equal(t, "⊖{\n    \"a\": 3,\n    \"m\": 2,\n    \"z\": 1\n}", text)
}

func TestRender_TrailingCommaFollowsOwnKeyOrder(t *testing.T) {
	v := NewObject("a", 1, "b", 2)
	configs := map[string]*Config{
		"plain":    NewConfig().SetShowToLevel(1),
		"sorted":   NewConfig().SetShowToLevel(1).SetSortObjects(true),
		"filtered": NewConfig().SetShowToLevel(1).SetPropertyList([]string{"b", "a"}),
	}
	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			_, text := renderText(t, cfg, v)
			assert.Contains(t, text, `"a": 1,`)
			assert.NotContains(t, text, `"b": 2,`)
			assert.Contains(t, text, `"b": 2`)
		})
	}

	_, text := renderText(t, NewConfig().SetShowToLevel(1).SetSortObjects(true), NewObject("b", 1, "a", 2))
	assert.Equal(t, "⊖{\n    \"a\": 2\n    \"b\": 1,\n}", text)
}

func TestRender_PropertyList(t *testing.T) {
	v := NewObject("id", 7, "name", "n", "secret", "s")
	_, text := renderText(t, NewConfig().SetShowToLevel(1).SetPropertyList([]string{"name", "missing", "id"}), v)
	assert.Equal(t, "⊖{\n    \"name\": \"n\",\n    \"id\": 7,\n}", text)
	assert.NotContains(t, text, "secret")

	tree, text := renderText(t, NewConfig().SetPropertyList([]string{"nope"}), v)
	assert.Equal(t, "{}", text)
	assert.Empty(t, tree.Disclosures())
}

func TestRender_SortDoesNotMutatePropertyList(t *testing.T) {
	props := []string{"b", "a"}
	cfg := NewConfig().SetShowToLevel(1).SetSortObjects(true).SetPropertyList(props)
	_, text := renderText(t, cfg, NewObject("a", 1, "b", 2))
	assert.Less(t, strings.Index(text, `"a"`), strings.Index(text, `"b"`))
	assert.Equal(t, []string{"b", "a"}, props)
	assert.Equal(t, []string{"b", "a"}, cfg.Options().PropertyList)
}

func TestRender_Replacer(t *testing.T) {
	src := NewObject("keep", 1, "mask", "secret", "list", []any{1, 2})
	type call struct {
		holder any
		key    any
	}
	var calls []call
	cfg := NewConfig().SetShowToLevel(All).SetReplacer(func(holder, key, value any) any {
		calls = append(calls, call{holder, key})
		if key == "mask" {
			return "***"
		}
		if i, ok := key.(int); ok {
			return i * 10
		}
		return value
	})
	_, text := renderText(t, cfg, src)
	assert.Contains(t, text, `"mask": "***"`)
	assert.Contains(t, text, "        0,\n        10\n")
	require.Len(t, calls, 5)
	assert.Same(t, src, calls[0].holder)
	assert.Equal(t, "keep", calls[0].key)
	assert.Equal(t, 0, calls[3].key)
}

func TestRender_ReplacerRunsLazily(t *testing.T) {
	calls := 0
	cfg := NewConfig().SetReplacer(func(_, _, v any) any {
		calls++
		return v
	})
	tree, err := cfg.Render([]any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	tree.Disclosures()[0].Show()
	assert.Equal(t, 3, calls)
}

func TestRender_TruncatedString(t *testing.T) {
	s := "hello \"world\""
	tree, text := renderText(t, NewConfig().SetMaxStringLength(5).SetShowToLevel(All), s)
	assert.Equal(t, `⊕"hello ..."`, text)

	ds := tree.Disclosures()
	require.Len(t, ds, 1)
	assert.Equal(t, "string", ds[0].Kind())
	assert.Equal(t, Collapsed, ds[0].State(), "strings never auto-expand")

	ds[0].Show()
	assert.Equal(t, `⊖"hello \"world\""`, PlainText(tree.Root))
}

func TestRender_TruncationCountsRunes(t *testing.T) {
	_, text := renderText(t, NewConfig().SetMaxStringLength(2), "héllo")
	assert.Equal(t, `⊕"hé ..."`, text)

	_, text = renderText(t, NewConfig().SetMaxStringLength(5), "héllo")
	assert.Equal(t, `"héllo"`, text)
}

func TestRender_TruncatedStringInArrayIsIndentedOnce(t *testing.T) {
	tree, text := renderText(t, NewConfig().SetMaxStringLength(3).SetShowToLevel(1), []any{"abcdef"})
	assert.Equal(t, "⊖[\n   ⊕\"abc ...\"\n]", text)
	tree.Disclosures()[1].Show()
	assert.Equal(t, "⊖[\n   ⊖\"abcdef\"\n]", PlainText(tree.Root))
}

func TestRender_SnapshotIsolation(t *testing.T) {
	cfg := NewConfig().SetShowToLevel(1)
	tree, err := cfg.Render([]any{[]any{1}})
	require.NoError(t, err)

	cfg.SetShowToLevel(All).SetCollapseMsg(func(int) string { return "changed" })
	tree.Disclosures()[1].Show()
	assert.NotContains(t, PlainText(tree.Root), "changed")
	assert.Equal(t, "⊖[\n   ⊖[\n        1\n    ]\n]", PlainText(tree.Root))
}

func TestRender_RefusesInvalidConfig(t *testing.T) {
	cfg := NewConfig().SetCollapseMsg(nil)
	tree, err := cfg.Render([]any{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Nil(t, tree)

	opts := DefaultOptions()
	opts.CollapseMsg = nil
	_, err = opts.Render(1)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestRender_DefaultConfig(t *testing.T) {
	tree, err := Render(NewObject("a", 1))
	require.NoError(t, err)
	assert.Equal(t, "⊕{1 item}", PlainText(tree.Root))
}

func TestRender_CustomIcons(t *testing.T) {
	icon := NewElement("i", "icon").Append(NewText("+"))
	cfg := NewConfig().SetShowToLevel(1).SetIcons(icon, "-")
	require.NoError(t, cfg.Err())
	tree, text := renderText(t, cfg, []any{[]any{1}, []any{2}})
	assert.Equal(t, "-[\n   +[1 item],\n   +[1 item]\n]", text)
	assert.Nil(t, icon.Parent(), "node icons are copied, never moved")

	var icons int
	var walk func(n Node)
	walk = func(n Node) {
		if el, ok := n.(*Element); ok {
			if el.Class == "icon" {
				icons++
			}
			for _, c := range el.Children {
				walk(c)
			}
		}
	}
	walk(tree.Root)
	assert.Equal(t, 3, icons)
}

func TestRender_StructFieldsKeepEncodingOrder(t *testing.T) {
	type item struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
		Mid   []int  `json:"mid"`
	}
	_, text := renderText(t, NewConfig().SetShowToLevel(1), item{Zeta: 1, Alpha: "x", Mid: []int{2}})
	assert.Equal(t, "⊖{\n    \"zeta\": 1,\n    \"alpha\": \"x\",\n    \"mid\": ⊕[1 item]\n}", text)
}

func TestRender_NilContainersAreNull(t *testing.T) {
	for _, v := range []any{[]any(nil), map[string]any(nil), []int(nil), map[string]int(nil)} {
		_, text := renderText(t, NewConfig(), v)
		assert.Equal(t, "null", text, "%T", v)
	}
}

func TestRender_DatesAreNeverTruncated(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tree, text := renderText(t, NewConfig().SetMaxStringLength(4), []any{when, "abcdefgh"})
	tree.Disclosures()[0].Show()
	text = PlainText(tree.Root)
	assert.Contains(t, text, `"2024-01-02T03:04:05Z",`)
	assert.Contains(t, text, `⊕"abcd ..."`)
	assert.Len(t, tree.Disclosures(), 2, "only the plain string collapses")
}

func TestRender_RepeatedNodeRendersCopies(t *testing.T) {
	mark := NewElement("b", "mark").Append(NewText("X"))
	tree, text := renderText(t, NewConfig().SetShowToLevel(1), []any{mark, mark})
	assert.Equal(t, "⊖[\nX,\nX\n]", text)

	content := tree.Disclosures()[0].Content()
	require.NotNil(t, content)
	assert.Same(t, content, mark.Parent(), "the first occurrence is the node itself")
}

func TestTree_DisclosureForBuiltContent(t *testing.T) {
	tree, err := NewConfig().Render(NewObject("a", []any{1}))
	require.NoError(t, err)
	root := tree.Disclosures()[0]
	root.Show()
	require.Len(t, tree.Disclosures(), 2)
	inner := tree.Disclosures()[1]

	anchors := Anchors(tree.Root)
	require.Len(t, anchors, 3, "root hide, inner glyph, inner caption")
	d, ok := tree.DisclosureFor(anchors[0])
	require.True(t, ok)
	assert.Same(t, root, d)
	d, ok = tree.DisclosureFor(anchors[2])
	require.True(t, ok)
	assert.Same(t, inner, d)

	inner.Show()
	anchors = Anchors(tree.Root)
	require.Len(t, anchors, 2)
	d, ok = tree.DisclosureFor(anchors[1])
	require.True(t, ok)
	assert.Same(t, inner, d)
}
