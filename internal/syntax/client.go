package syntax

import (
	"context"
	"sync"

	"livehl/internal/edit"
	"livehl/internal/lang"
	"livehl/internal/log"
	"livehl/internal/rangeset"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
)

// BytesPerUnit is the number of parser bytes per document offset. Documents
// are addressed in UTF-8 bytes.
const BytesPerUnit = 1

// DefaultMaxInjectionDepth bounds how deeply injections may nest.
const DefaultMaxInjectionDepth = 4

// TextReader supplies the current document contents. The returned slice is
// copied before use.
type TextReader interface {
	Bytes() []byte
}

// Client owns the parse trees for one document. Parse, ApplyEdit and
// SetLanguage must be called from the goroutine that mutates the document;
// Snapshot may be called from anywhere.
type Client struct {
	registry *Registry
	reader   TextReader
	maxDepth int

	parsers map[lang.ID]*sitter.Parser

	mu         sync.RWMutex
	id         lang.ID
	snap       *Snapshot
	generation uint64
}

// Option configures a Client.
type Option func(*Client)

// WithMaxInjectionDepth limits injection nesting. Zero disables injections.
func WithMaxInjectionDepth(depth int) Option {
	return func(c *Client) {
		if depth >= 0 {
			c.maxDepth = depth
		}
	}
}

func NewClient(registry *Registry, id lang.ID, reader TextReader, opts ...Option) *Client {
	c := &Client{
		registry: registry,
		reader:   reader,
		maxDepth: DefaultMaxInjectionDepth,
		parsers:  make(map[lang.ID]*sitter.Parser),
		id:       id,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Language returns the language of the primary layer.
func (c *Client) Language() lang.ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Snapshot returns the latest published snapshot, or nil before the first
// Parse.
func (c *Client) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Parse discards any existing trees and parses the document from scratch.
func (c *Client) Parse(ctx context.Context) error {
	snap, err := c.build(ctx, c.Language(), c.readSource(), nil)
	if err != nil {
		return err
	}
	c.publish(snap)
	return nil
}

// SetLanguage switches the primary grammar and reparses.
func (c *Client) SetLanguage(ctx context.Context, id lang.ID) error {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
	return c.Parse(ctx)
}

// ApplyEdit brings the trees up to date with the document after e and
// returns the document ranges whose highlighting may have changed. Ranges
// are in post-edit coordinates.
func (c *Client) ApplyEdit(e edit.Edit) rangeset.Set {
	ctx := context.Background()
	id := c.Language()
	old := c.Snapshot()
	src := c.readSource()
	whole := rangeset.Of(rangeset.Span(0, len(src)/BytesPerUnit))

	be, ok := e.Bytes(BytesPerUnit)
	incremental := ok &&
		old != nil && old.Language == id &&
		old.Primary() != nil && old.Primary().Tree != nil &&
		int(be.OldEndByte) <= len(old.Source) && int(be.NewEndByte) <= len(src)

	if !incremental {
		snap, err := c.build(ctx, id, src, nil)
		if err != nil {
			log.ErrorErr(log.CatSyntax, "full reparse failed", err, "lang", id)
			return whole
		}
		c.publish(snap)
		if snap.Primary().Tree == nil && (old == nil || old.Primary().Tree == nil) {
			return rangeset.Set{}
		}
		return whole
	}

	prev := old.Primary()
	tree := prev.Tree.Copy()
	tree.Edit(sitter.EditInput{
		StartIndex:  be.StartByte,
		OldEndIndex: be.OldEndByte,
		NewEndIndex: be.NewEndByte,
		StartPoint:  prev.lines.point(int(be.StartByte)),
		OldEndPoint: prev.lines.point(int(be.OldEndByte)),
		NewEndPoint: newLineIndex(src).point(int(be.NewEndByte)),
	})

	snap, err := c.build(ctx, id, src, tree)
	if err != nil {
		log.ErrorErr(log.CatSyntax, "incremental reparse failed", err, "lang", id, "edit", e)
		return whole
	}
	c.publish(snap)

	changed := changedRanges(old, snap, e)
	changed.IntersectRange(rangeset.Span(0, len(src)/BytesPerUnit))
	return changed
}

func (c *Client) readSource() []byte {
	if c.reader == nil {
		return nil
	}
	return append([]byte(nil), c.reader.Bytes()...)
}

func (c *Client) publish(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	snap.Generation = c.generation
	c.snap = snap
}

func (c *Client) build(ctx context.Context, id lang.ID, src []byte, prev *sitter.Tree) (*Snapshot, error) {
	g, err := c.registry.Lookup(id)
	if err != nil {
		return nil, errors.Wrapf(err, "load grammar %s", id)
	}

	primary := &Layer{
		ID:      PrimaryLayer,
		Parent:  -1,
		Grammar: g,
		Ranges:  []rangeset.Range{rangeset.Span(0, len(src)/BytesPerUnit)},
		Source:  src,
		lines:   newLineIndex(src),
	}
	if g != nil {
		tree, err := c.parse(ctx, g, prev, src)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", id)
		}
		primary.Tree = tree
	}

	layers := c.discoverInjections(ctx, []*Layer{primary})
	return &Snapshot{Language: id, Source: src, Layers: layers}, nil
}

func (c *Client) parse(ctx context.Context, g *Grammar, prev *sitter.Tree, src []byte) (*sitter.Tree, error) {
	parser, ok := c.parsers[g.ID]
	if !ok {
		parser = sitter.NewParser()
		parser.SetLanguage(g.Language)
		c.parsers[g.ID] = parser
	}
	tree, err := parser.ParseCtx(ctx, prev, src)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, errors.New("parser returned no tree")
	}
	return tree, nil
}

// discoverInjections appends a layer for every injected region, scanning
// new layers in turn until no more are found or the depth limit is hit.
func (c *Client) discoverInjections(ctx context.Context, layers []*Layer) []*Layer {
	for i := 0; i < len(layers); i++ {
		parent := layers[i]
		if parent.Tree == nil || parent.Grammar == nil || parent.Depth >= c.maxDepth {
			continue
		}
		for _, rule := range parent.Grammar.Injections {
			for _, region := range findRegions(rule, parent) {
				g, err := c.registry.Lookup(region.id)
				if err != nil || g == nil {
					continue
				}
				src := parent.Source[region.start:region.end]
				tree, err := c.parse(ctx, g, nil, src)
				if err != nil {
					log.Warn(log.CatSyntax, "injected region not parsed", "lang", region.id, "error", err)
					continue
				}
				offset := parent.Offset + region.start/BytesPerUnit
				layers = append(layers, &Layer{
					ID:      len(layers),
					Parent:  i,
					Depth:   parent.Depth + 1,
					Grammar: g,
					Tree:    tree,
					Ranges:  []rangeset.Range{rangeset.Span(offset, len(src)/BytesPerUnit)},
					Offset:  offset,
					Source:  src,
					lines:   newLineIndex(src),
				})
			}
		}
	}
	return layers
}

type region struct {
	start int
	end   int
	id    lang.ID
}

// findRegions runs an injection rule over a layer and returns the matched
// content regions as byte offsets into the layer's source.
func findRegions(rule InjectionRule, layer *Layer) []region {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(rule.Query, layer.Tree.RootNode())

	var out []region
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, layer.Source)

		var content *sitter.Node
		name := ""
		for _, c := range m.Captures {
			switch rule.Query.CaptureNameForId(c.Index) {
			case contentCapture:
				content = c.Node
			case languageCapture:
				name = c.Node.Content(layer.Source)
			}
		}
		if content == nil || content.EndByte() <= content.StartByte() {
			continue
		}

		id := rule.Language
		if name != "" {
			id = lang.FromName(name)
		}
		if id == "" || id == lang.Plain {
			continue
		}
		out = append(out, region{start: int(content.StartByte()), end: int(content.EndByte()), id: id})
	}
	return out
}
