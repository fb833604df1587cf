package syntax

import (
	"sort"

	"livehl/internal/lang"
	"livehl/internal/rangeset"

	sitter "github.com/smacker/go-tree-sitter"
)

// PrimaryLayer is the index of the layer parsed from the whole document.
const PrimaryLayer = 0

// Layer is one parse tree. The primary layer covers the whole document;
// injected layers cover the regions an injection rule matched in their
// parent and are parsed from that text alone, so their byte offsets are
// relative to Offset.
type Layer struct {
	ID      int
	Parent  int // -1 for the primary layer
	Depth   int
	Grammar *Grammar
	Tree    *sitter.Tree
	Ranges  []rangeset.Range
	Offset  int
	Source  []byte

	lines lineIndex
}

// Language reports the layer's language, Plain when it has no grammar.
func (l *Layer) Language() lang.ID {
	if l.Grammar == nil {
		return lang.Plain
	}
	return l.Grammar.ID
}

// Injected reports whether l is nested inside another layer.
func (l *Layer) Injected() bool {
	return l.Parent >= 0
}

// Extent is the document range covered by the layer's source text.
func (l *Layer) Extent() rangeset.Range {
	return rangeset.Span(l.Offset, len(l.Source))
}

// Snapshot is an immutable view of the document text and its parse trees.
// It is published whole by the client and may be read from any goroutine.
type Snapshot struct {
	Generation uint64
	Language   lang.ID
	Source     []byte
	Layers     []*Layer
}

// Len is the document length in units.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Source) / BytesPerUnit
}

// Primary returns the layer for the whole document.
func (s *Snapshot) Primary() *Layer {
	if s == nil || len(s.Layers) == 0 {
		return nil
	}
	return s.Layers[PrimaryLayer]
}

// Injected returns the nested layers in discovery order.
func (s *Snapshot) Injected() []*Layer {
	if s == nil || len(s.Layers) <= 1 {
		return nil
	}
	return s.Layers[1:]
}

// Text returns the document text within r.
func (s *Snapshot) Text(r rangeset.Range) string {
	r = r.Clip(s.Len())
	return string(s.Source[r.Start*BytesPerUnit : r.End*BytesPerUnit])
}

// lineIndex holds the byte offset at which every line starts.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// point converts a byte offset into a tree-sitter row/column position.
func (idx lineIndex) point(off int) sitter.Point {
	row := sort.Search(len(idx), func(i int) bool { return idx[i] > off }) - 1
	if row < 0 {
		row = 0
	}
	return sitter.Point{Row: uint32(row), Column: uint32(off - idx[row])}
}
