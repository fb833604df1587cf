package resolver

import (
	"context"
	"strings"
	"testing"

	"livehl/internal/capture"
	"livehl/internal/lang"
	"livehl/internal/rangeset"
	"livehl/internal/syntax"

	"github.com/stretchr/testify/require"
)

type staticText string

func (s staticText) Bytes() []byte { return []byte(s) }

func parse(t *testing.T, id lang.ID, src string) *syntax.Snapshot {
	t.Helper()
	c := syntax.NewClient(syntax.NewRegistry(), id, staticText(src))
	require.NoError(t, c.Parse(context.Background()))
	return c.Snapshot()
}

func kindAt(caps []capture.Capture, off int) (capture.Kind, int) {
	n := 0
	kind := capture.None
	for _, c := range caps {
		if c.Range.Contains(off) {
			kind = c.Kind
			n++
		}
	}
	return kind, n
}

const page = `<html><script>var x = 1;</script><p class="a">hi</p></html>`

func TestResolveInjectedTakesPrecedence(t *testing.T) {
	snap := parse(t, lang.HTML, page)
	caps := New(DefaultMatchLimit).Resolve(context.Background(), rangeset.Span(0, len(page)), snap)

	kind, _ := kindAt(caps, strings.Index(page, "var"))
	require.Equal(t, capture.Keyword, kind)

	kind, _ = kindAt(caps, strings.Index(page, "script"))
	require.Equal(t, capture.Tag, kind)

	kind, _ = kindAt(caps, strings.Index(page, "class"))
	require.Equal(t, capture.Attribute, kind)
}

func TestResolveMatchesLayerQueryInsideInjection(t *testing.T) {
	snap := parse(t, lang.HTML, page)
	var js *syntax.Layer
	for _, l := range snap.Injected() {
		if l.Language() == lang.JavaScript {
			js = l
		}
	}
	require.NotNil(t, js)

	direct, err := js.Captures(context.Background(), js.Extent(), nil)
	require.NoError(t, err)
	resolved := New(0).Resolve(context.Background(), js.Extent(), snap)
	require.Equal(t, direct, resolved)
}

func TestResolveClipsToWindow(t *testing.T) {
	snap := parse(t, lang.HTML, page)
	start := strings.Index(page, "script>var") + 2
	window := rangeset.Range{Start: start, End: strings.Index(page, "x =")}

	caps := New(DefaultMatchLimit).Resolve(context.Background(), window, snap)
	require.NotEmpty(t, caps)
	for _, c := range caps {
		require.True(t, window.ContainsRange(c.Range), "capture %v escapes %v", c, window)
		require.False(t, c.Range.Empty())
	}

	kind, _ := kindAt(caps, start)
	require.Equal(t, capture.Tag, kind, "truncated tag name should be kept")
}

func TestResolveSharedMatchLimit(t *testing.T) {
	snap := parse(t, lang.HTML, page)
	unlimited := New(0).Resolve(context.Background(), rangeset.Span(0, len(page)), snap)
	limited := New(2).Resolve(context.Background(), rangeset.Span(0, len(page)), snap)

	require.Greater(t, len(unlimited), 2)
	require.LessOrEqual(t, len(limited), 2)
}

func TestResolveWindowOutsideDocument(t *testing.T) {
	snap := parse(t, lang.Go, "package main\n")
	require.Empty(t, New(0).Resolve(context.Background(), rangeset.Range{Start: 100, End: 200}, snap))
	require.Empty(t, New(0).Resolve(context.Background(), rangeset.Range{Start: 3, End: 3}, snap))
	require.Nil(t, New(0).Resolve(context.Background(), rangeset.Span(0, 5), nil))
}

func TestResolveLayersWithoutTrees(t *testing.T) {
	src := []byte("abcdefghij")
	snap := &syntax.Snapshot{
		Source: src,
		Layers: []*syntax.Layer{
			{ID: 0, Parent: -1, Ranges: []rangeset.Range{rangeset.Span(0, 10)}, Source: src},
			{ID: 1, Parent: 0, Depth: 1, Ranges: []rangeset.Range{rangeset.Span(2, 3)}, Offset: 2, Source: src[2:5]},
		},
	}
	require.Empty(t, New(0).Resolve(context.Background(), rangeset.Span(0, 10), snap))
}

func TestIndexRebuiltPerSnapshot(t *testing.T) {
	r := New(0)
	first := parse(t, lang.HTML, page)
	second := parse(t, lang.HTML, "<style>p { color: red; }</style>")

	layers := r.injectedIn(first, rangeset.Span(0, len(page)))
	require.Len(t, layers, 1)
	require.Equal(t, lang.JavaScript, layers[0].Language())

	layers = r.injectedIn(second, rangeset.Span(0, len(page)))
	require.Len(t, layers, 1)
	require.Equal(t, lang.CSS, layers[0].Language())
	require.Same(t, second, r.cached)
}
