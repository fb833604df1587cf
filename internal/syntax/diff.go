package syntax

import (
	"math"

	"livehl/internal/edit"
	"livehl/internal/lang"
	"livehl/internal/rangeset"

	sitter "github.com/smacker/go-tree-sitter"
)

// token is a leaf node in document coordinates, identified together with its
// parent's type so that a leaf changing syntactic role counts as a change.
type token struct {
	r      rangeset.Range
	typ    string
	parent string
}

// tokensIn lists the leaves of l overlapping the document range r.
func (l *Layer) tokensIn(r rangeset.Range) []token {
	if l == nil || l.Tree == nil {
		return nil
	}
	var out []token
	walkLeaves(l.Tree.RootNode(), l.byteAt(r.Start), l.byteAt(r.End), func(n *sitter.Node, parent string, _ string) bool {
		out = append(out, token{
			r:      l.nodeRange(n),
			typ:    n.Type(),
			parent: parent,
		})
		return true
	})
	return out
}

// byteAt converts a document offset into a byte offset in l's tree.
func (l *Layer) byteAt(off int) int {
	if off == math.MaxInt {
		return off
	}
	return max(0, (off-l.Offset)*BytesPerUnit)
}

func (l *Layer) nodeRange(n *sitter.Node) rangeset.Range {
	return rangeset.NewRange(l.Offset+int(n.StartByte())/BytesPerUnit, l.Offset+int(n.EndByte())/BytesPerUnit)
}

// childAt returns the first child of root ending after byte b, or the last
// child when b lies past all of them.
func childAt(root *sitter.Node, b int) *sitter.Node {
	count := int(root.ChildCount())
	if count == 0 {
		return nil
	}
	c := sitter.NewTreeCursor(root)
	defer c.Close()
	if c.GoToFirstChildForByte(uint32(b)) < 0 {
		return root.Child(count - 1)
	}
	return c.CurrentNode()
}

// diffWindow bounds a token comparison to the top-level nodes touching e,
// widened outwards until a top-level node on each side has the same type and
// remapped range in both trees. Leaves outside the window are taken as
// unchanged. The boolean is false when either layer has no tree.
func diffWindow(old *Layer, cur *Layer, e edit.Edit) (rangeset.Range, bool) {
	if old == nil || cur == nil || old.Tree == nil || cur.Tree == nil {
		return rangeset.Range{}, false
	}
	oldRoot, curRoot := old.Tree.RootNode(), cur.Tree.RootNode()
	same := func(cn *sitter.Node, on *sitter.Node) bool {
		return cn != nil && on != nil && cn.Type() == on.Type() && cur.nodeRange(cn) == e.Range(old.nodeRange(on))
	}

	lo := e.Location
	cn, on := childAt(curRoot, cur.byteAt(e.Location)), childAt(oldRoot, old.byteAt(e.Location))
	for cn != nil || on != nil {
		if same(cn, on) && cur.nodeRange(cn).End < e.Location {
			break
		}
		cStart, oStart := -1, -1
		if cn != nil {
			cStart = cur.nodeRange(cn).Start
		}
		if on != nil {
			oStart = e.Range(old.nodeRange(on)).Start
		}
		if cStart >= oStart {
			lo = min(lo, cStart)
			cn = cn.PrevSibling()
		} else {
			lo = min(lo, oStart)
			on = on.PrevSibling()
		}
	}

	hi := e.NewEnd()
	cn, on = childAt(curRoot, cur.byteAt(e.NewEnd())), childAt(oldRoot, old.byteAt(e.OldEnd()))
	for cn != nil || on != nil {
		if same(cn, on) && cur.nodeRange(cn).Start > e.NewEnd() {
			break
		}
		cEnd, oEnd := math.MaxInt, math.MaxInt
		if cn != nil {
			cEnd = cur.nodeRange(cn).End
		}
		if on != nil {
			oEnd = e.Range(old.nodeRange(on)).End
		}
		if cEnd <= oEnd {
			hi = max(hi, cEnd)
			cn = cn.NextSibling()
		} else {
			hi = max(hi, oEnd)
			on = on.NextSibling()
		}
	}
	return rangeset.Range{Start: lo, End: hi}, true
}

type leafFrame struct {
	node   *sitter.Node
	parent string
	grand  string
}

// walkLeaves visits the leaves of root overlapping the byte range [lo, hi) in
// source order, stopping early when visit returns false.
func walkLeaves(root *sitter.Node, lo int, hi int, visit func(n *sitter.Node, parent string, grand string) bool) {
	if root == nil {
		return
	}
	stack := []leafFrame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := f.node
		if n == nil {
			continue
		}
		start, end := int(n.StartByte()), int(n.EndByte())
		if end <= lo || start >= hi {
			continue
		}

		count := int(n.ChildCount())
		if count == 0 {
			if !visit(n, f.parent, f.grand) {
				return
			}
			continue
		}
		typ := n.Type()
		for i := count - 1; i >= 0; i-- {
			stack = append(stack, leafFrame{node: n.Child(i), parent: typ, grand: f.parent})
		}
	}
}

// changedRanges compares the trees of two consecutive snapshots and returns
// the post-edit ranges whose tokens differ, plus any injected region that
// appeared, disappeared or changed language.
func changedRanges(old *Snapshot, cur *Snapshot, e edit.Edit) rangeset.Set {
	var out rangeset.Set
	out.Union(e.NewRange())
	out.UnionSet(diffLayers(old.Primary(), cur.Primary(), e))

	type key struct {
		r     rangeset.Range
		id    lang.ID
		depth int
	}
	next := make(map[key]*Layer, len(cur.Injected()))
	for _, l := range cur.Injected() {
		next[key{r: l.Extent(), id: l.Language(), depth: l.Depth}] = l
	}
	for _, l := range old.Injected() {
		k := key{r: e.Range(l.Extent()), id: l.Language(), depth: l.Depth}
		if match, ok := next[k]; ok {
			out.UnionSet(diffLayers(l, match, e))
			delete(next, k)
			continue
		}
		out.Union(k.r)
	}
	for k := range next {
		out.Union(k.r)
	}
	return out
}

// diffLayers finds the span between the longest common token prefix and
// suffix of two layers, with the old layer's tokens remapped through e. Only
// tokens inside the window around e are compared.
func diffLayers(old *Layer, cur *Layer, e edit.Edit) rangeset.Set {
	newWin := rangeset.Range{Start: 0, End: math.MaxInt}
	oldWin := newWin
	if w, ok := diffWindow(old, cur, e); ok {
		newWin = w
		oldWin = rangeset.Range{Start: w.Start, End: max(w.Start, w.End-e.Delta())}
	}

	var a []token
	for _, t := range old.tokensIn(oldWin) {
		t.r = e.Range(t.r)
		a = append(a, t)
	}
	b := cur.tokensIn(newWin)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	lo, hi := math.MaxInt, -1
	if prefix < len(a)-suffix {
		lo = min(lo, a[prefix].r.Start)
		hi = max(hi, a[len(a)-1-suffix].r.End)
	}
	if prefix < len(b)-suffix {
		lo = min(lo, b[prefix].r.Start)
		hi = max(hi, b[len(b)-1-suffix].r.End)
	}
	if hi <= lo {
		return rangeset.Set{}
	}
	return rangeset.Of(rangeset.Range{Start: lo, End: hi})
}
