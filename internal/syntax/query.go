package syntax

import (
	"context"

	"livehl/internal/capture"
	"livehl/internal/log"
	"livehl/internal/rangeset"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
)

// cancelCheckInterval is how many matches are consumed between checks of the
// caller's context.
const cancelCheckInterval = 64

// Budget is a match allowance shared by every layer query made for one
// request. A nil Budget is unlimited.
type Budget struct {
	remaining int
	exhausted bool
}

// NewBudget returns an allowance of limit matches, or nil (unlimited) when
// limit is not positive.
func NewBudget(limit int) *Budget {
	if limit <= 0 {
		return nil
	}
	return &Budget{remaining: limit}
}

// Exhausted reports whether a query was cut short by the allowance.
func (b *Budget) Exhausted() bool {
	return b != nil && b.exhausted
}

func (b *Budget) take() bool {
	if b == nil {
		return true
	}
	if b.remaining == 0 {
		b.exhausted = true
		return false
	}
	b.remaining--
	return true
}

// Captures runs the layer's highlight query over window, given in document
// coordinates, and returns the captures clipped to it in match order. Each
// match consumed is charged to budget; the query stops once it runs out.
func (l *Layer) Captures(ctx context.Context, window rangeset.Range, budget *Budget) ([]capture.Capture, error) {
	if l == nil || l.Tree == nil || l.Grammar == nil {
		return nil, nil
	}
	local, ok := window.Intersect(l.Extent())
	if !ok {
		return nil, nil
	}
	lo := (local.Start - l.Offset) * BytesPerUnit
	hi := (local.End - l.Offset) * BytesPerUnit

	if l.Grammar.Highlights == nil {
		return l.leafCaptures(ctx, local, lo, hi, budget)
	}

	q := l.Grammar.Highlights
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(l.lines.point(lo), l.lines.point(hi))
	cursor.Exec(q, l.Tree.RootNode())

	var out []capture.Capture
	matches := 0
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			return out, nil
		}
		if !budget.take() {
			log.Debug(log.CatSyntax, "match limit reached", "lang", l.Language(), "window", local)
			return out, nil
		}
		matches++
		if matches%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "highlight query")
			}
		}

		m = cursor.FilterPredicates(m, l.Source)
		for _, c := range m.Captures {
			kind, ok := capture.ParseKind(q.CaptureNameForId(c.Index))
			if !ok {
				continue
			}
			if cp, ok := l.capture(c.Node, kind).Clip(local); ok {
				out = append(out, cp)
			}
		}
	}
}

// leafCaptures backs grammars without a highlight query by classifying each
// leaf from its node type and ancestry. Every visited leaf counts as a match.
func (l *Layer) leafCaptures(ctx context.Context, local rangeset.Range, lo int, hi int, budget *Budget) ([]capture.Capture, error) {
	var (
		out    []capture.Capture
		leaves int
		err    error
	)
	id := l.Language()
	walkLeaves(l.Tree.RootNode(), lo, hi, func(n *sitter.Node, parent string, grand string) bool {
		if !budget.take() {
			log.Debug(log.CatSyntax, "match limit reached", "lang", id, "window", local)
			return false
		}
		leaves++
		if leaves%cancelCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}

		start, end := int(n.StartByte()), int(n.EndByte())
		kind := capture.ClassifyLeaf(id, capture.Leaf{
			Type:       n.Type(),
			Named:      n.IsNamed(),
			ParentType: parent,
			GrandType:  grand,
			Text:       l.Source[start:end],
		})
		if kind == capture.None {
			return true
		}
		if cp, ok := l.capture(n, kind).Clip(local); ok {
			out = append(out, cp)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "leaf classification")
	}
	return out, nil
}

func (l *Layer) capture(n *sitter.Node, kind capture.Kind) capture.Capture {
	start, end := int(n.StartByte()), int(n.EndByte())
	r := rangeset.NewRange(l.Offset+start/BytesPerUnit, l.Offset+end/BytesPerUnit)
	cp := capture.Capture{Range: r, Extent: r, Kind: kind}
	if kind == capture.Comment {
		cp.Text = string(l.Source[start:end])
	}
	return cp
}
